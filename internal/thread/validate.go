package thread

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxBodyLength is the longest comment body accepted, in characters.
const MaxBodyLength = 1000

var (
	ErrEmptyBody   = errors.New("comment body is empty")
	ErrBodyTooLong = fmt.Errorf("comment body exceeds %d characters", MaxBodyLength)
)

// ValidateBody trims body and checks it is neither empty nor too long.
func ValidateBody(body string) (string, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return "", ErrEmptyBody
	}
	if utf8.RuneCountInString(body) > MaxBodyLength {
		return "", ErrBodyTooLong
	}
	return body, nil
}
