package anilist

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/brianvoe/gofakeit/v6"

	"scenehub/internal/microservices/http-api/models"
	"scenehub/internal/shared"
)

// maxPerPage is the largest page AniList serves.
const maxPerPage = 50

// Catalog is the part of the AniList client the seeder needs.
type Catalog interface {
	FetchPopular(ctx context.Context, page, perPage int) ([]Media, error)
}

type TagStore interface {
	Seed(ctx context.Context, tags []models.Tag) error
	GetAll(ctx context.Context) ([]models.Tag, error)
}

type AnimeStore interface {
	Upsert(ctx context.Context, anime ...*models.Anime) error
}

type SceneStore interface {
	AnimeIDsWithScenes(ctx context.Context) ([]int64, error)
	Create(ctx context.Context, scene *models.Scene, tagIDs []int64) error
}

// SeedConfig holds configuration for the seeder
type SeedConfig struct {
	Count   int   // anime to fetch
	Workers int   // concurrent scene writers
	Seed    int64 // random source for titles and engagement; 0 picks a random seed
}

// SeedReport summarises a seeding run.
type SeedReport struct {
	Fetched int `json:"fetched"`
	Usable  int `json:"usable"`
	Skipped int `json:"skipped"` // already had scenes
	Created int `json:"created"`
	Failed  int `json:"failed"`
}

// Seeder fills a fresh installation with tags, anime and one or two scenes per popular anime.
// Re-running only adds scenes for anime that have none.
type Seeder struct {
	catalog Catalog
	tags    TagStore
	anime   AnimeStore
	scenes  SceneStore
	cfg     SeedConfig
	faker   *gofakeit.Faker
	logger  *slog.Logger
}

func NewSeeder(catalog Catalog, tags TagStore, anime AnimeStore, scenes SceneStore, cfg SeedConfig, logger *slog.Logger) *Seeder {
	if cfg.Count <= 0 {
		cfg.Count = maxPerPage
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{
		catalog: catalog,
		tags:    tags,
		anime:   anime,
		scenes:  scenes,
		cfg:     cfg,
		faker:   gofakeit.New(cfg.Seed),
		logger:  logger.With("component", "seeder"),
	}
}

// Run performs the whole seeding sequence.
func (s *Seeder) Run(ctx context.Context) (SeedReport, error) {
	var report SeedReport

	if err := s.tags.Seed(ctx, DefaultTagModels()); err != nil {
		s.logger.Error("tag seeding failed", "error", err)
	}
	allTags, err := s.tags.GetAll(ctx)
	if err != nil {
		return report, fmt.Errorf("read tags: %w", err)
	}
	if len(allTags) == 0 {
		return report, fmt.Errorf("read tags: no tags available")
	}
	s.logger.Info("tags ready", "count", len(allTags))

	media, err := s.fetch(ctx)
	if err != nil {
		return report, fmt.Errorf("fetch anime: %w", err)
	}
	report.Fetched = len(media)

	usable := make([]Media, 0, len(media))
	for _, m := range media {
		if m.HasUsableImage() {
			usable = append(usable, m)
		}
	}
	report.Usable = len(usable)

	rows := make([]*models.Anime, 0, len(usable))
	for _, m := range usable {
		rows = append(rows, ToAnimeModel(m))
	}
	if err := s.anime.Upsert(ctx, rows...); err != nil {
		// scenes reference anime rows, nothing more can be done
		return report, err
	}

	existing, err := s.scenes.AnimeIDsWithScenes(ctx)
	if err != nil {
		return report, err
	}
	seeded := make(map[int64]struct{}, len(existing))
	for _, id := range existing {
		seeded[id] = struct{}{}
	}

	byName := make(map[string]int64, len(allTags))
	for _, t := range allTags {
		byName[t.Name] = t.ID
	}

	var created, failed atomic.Int64
	pool := NewWorkerPool(ctx, s.cfg.Workers, s.logger)
	pool.Start()

	for _, m := range usable {
		if _, ok := seeded[m.ID]; ok {
			report.Skipped++
			continue
		}
		tagIDs := AssignTags(m.Genres, byName)
		// drafts are built here so the faker is only used from one goroutine
		for _, draft := range s.drafts(m) {
			scene := draft
			ok := pool.Submit(func(ctx context.Context) error {
				if err := s.scenes.Create(ctx, scene, tagIDs); err != nil {
					failed.Add(1)
					return fmt.Errorf("scene %q [%s]: %w", scene.Title, m.DisplayTitle(), err)
				}
				created.Add(1)
				return nil
			})
			if !ok {
				failed.Add(1)
			}
		}
	}
	pool.Wait()

	report.Created = int(created.Load())
	report.Failed = int(failed.Load())
	s.logger.Info("seed complete",
		"fetched", report.Fetched, "usable", report.Usable, "skipped", report.Skipped,
		"created", report.Created, "failed", report.Failed)
	return report, ctx.Err()
}

func (s *Seeder) fetch(ctx context.Context) ([]Media, error) {
	var out []Media
	for page := 1; len(out) < s.cfg.Count; page++ {
		perPage := min(maxPerPage, s.cfg.Count-len(out))
		batch, err := s.catalog.FetchPopular(ctx, page, perPage)
		if err != nil {
			return nil, err
		}
		out = append(out, batch...)
		if len(batch) < perPage {
			break
		}
	}
	return out, nil
}

// drafts builds the banner scene and the cover scene for one anime, whichever images exist.
func (s *Seeder) drafts(m Media) []*models.Scene {
	animeID := m.ID
	var out []*models.Scene
	if banner := deref(m.BannerImage); banner != "" {
		out = append(out, s.sceneModel(animeID, banner, s.bannerTitle(m.Genres), s.bannerDescription(m)))
	}
	if cover := m.CoverURL(); cover != "" {
		out = append(out, s.sceneModel(animeID, cover, s.coverTitle(m), coverDescription(m)))
	}
	return out
}

func (s *Seeder) sceneModel(animeID int64, image, title, description string) *models.Scene {
	return &models.Scene{
		Title:       title,
		Description: description,
		ImageURL:    image,
		AnimeID:     &animeID,
		Source:      models.SourceSeed,
		IsApproved:  true,
		LikeCount:   s.faker.Number(0, 149),
	}
}

var titlePools = map[string][]string{
	"action":        {"The Decisive Clash", "Breaking the Limit", "Final Stand", "Into the Storm", "No Turning Back"},
	"romance":       {"A Quiet Confession", "The Words Left Unsaid", "Sunset Promise", "Before the Rain", "Close Enough to Touch"},
	"drama":         {"The Weight of Loss", "Last Goodbye", "Tears in the Rain", "Everything Falls Apart", "One Last Look"},
	"comedy":        {"The Chaos Begins", "That Unexpected Moment", "Pure Panic", "Absolute Disaster", "Nobody Expected This"},
	"slice of life": {"A Perfect Afternoon", "Golden Hour", "Peaceful Moments", "Just the Two of Us", "After School"},
	"fantasy":       {"The Realm Beyond", "Ancient Power Awakens", "Stars Align", "Through the Portal", "The Prophecy Begins"},
	"psychological": {"Shattered Reality", "Into the Abyss", "The Breaking Point", "Nothing Is Real", "Mind's Edge"},
	"horror":        {"Something Wicked", "No Escape", "The Darkness Within", "Don't Look Back", "It Found Us"},
	"sci-fi":        {"Into the Void", "Signal Lost", "Zero Hour", "Transmission End", "Last Coordinates"},
	"sports":        {"Match Point", "Everything on the Line", "The Final Play", "One Last Sprint", "Championship Moment"},
	"music":         {"The Last Performance", "Notes in the Wind", "Soul Resonance", "The Stage Is Set", "Final Encore"},
	"mecha":         {"Machine Uprising", "Iron Will", "Pilot's Resolve", "System Override", "Breach Protocol"},
	"supernatural":  {"The Veil Lifts", "Between Worlds", "Spirit's Call", "Cursed Ground", "What Lies Beneath"},
	"military":      {"Hold the Line", "Brothers in Arms", "Command Issued", "Last Order", "Sector Seven"},
	"mystery":       {"The Clue Revealed", "Nothing Adds Up", "Suspect Zero", "Follow the Thread", "Hidden in Plain Sight"},
	"historical":    {"An Era Ends", "Echoes of the Past", "The Chronicle Begins", "Before the Fall", "Lost to History"},
}

var fallbackTitles = []string{"A Fleeting Moment", "Beyond Words", "The Turning Point", "Unforgettable", "That Scene"}

var keyVisualTitles = []string{"Key Visual", "Official Art", "Character Spotlight", "Promotional Artwork", "Season Visual"}

// bannerTitle picks from the pool of the first genre that has one.
func (s *Seeder) bannerTitle(genres []string) string {
	for _, g := range genres {
		if pool, ok := titlePools[strings.ToLower(g)]; ok {
			return s.faker.RandomString(pool)
		}
	}
	return s.faker.RandomString(fallbackTitles)
}

func (s *Seeder) coverTitle(m Media) string {
	name := m.DisplayTitle()
	if name == "" {
		name = "Unknown"
	}
	return fmt.Sprintf("%s — %s", name, s.faker.RandomString(keyVisualTitles))
}

func describe(m Media) (title, genres, year string) {
	title = m.DisplayTitle()
	if title == "" {
		title = "this series"
	}
	n := min(2, len(m.Genres))
	genres = strings.ToLower(strings.Join(m.Genres[:n], " and "))
	if m.SeasonYear != nil && *m.SeasonYear > 0 {
		year = fmt.Sprintf(" (%d)", *m.SeasonYear)
	}
	return title, genres, year
}

func (s *Seeder) bannerDescription(m Media) string {
	title, genres, year := describe(m)
	templates := []string{
		fmt.Sprintf("An iconic moment from %s%s, a %s series that defined its era.", title, year, genres),
		fmt.Sprintf("One of the most memorable scenes in %s%s. %s at its finest.", title, year, capitalize(genres)),
		fmt.Sprintf("%s%s, captured at the moment everything changed. A landmark in %s anime.", title, year, genres),
		fmt.Sprintf("From %s%s: the scene fans still talk about. Pure %s storytelling.", title, year, genres),
	}
	return s.faker.RandomString(templates)
}

func coverDescription(m Media) string {
	title, genres, year := describe(m)
	return fmt.Sprintf("Official promotional artwork for %s%s. A %s series.", title, year, genres)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// genreTags maps lower-cased catalog genres to seed tag names, in priority order.
var genreTags = []struct{ genre, tag string }{
	{"action", "hype"},
	{"drama", "emotional"},
	{"comedy", "funny"},
	{"romance", "confession"},
	{"horror", "dark"},
	{"psychological", "tense"},
	{"slice of life", "peaceful"},
	{"adventure", "hype"},
	{"supernatural", "dark"},
	{"fantasy", "night sky"},
	{"sci-fi", "city lights"},
	{"sports", "hype"},
	{"music", "emotional"},
	{"mecha", "fight scene"},
	{"mystery", "tense"},
	{"thriller", "tense"},
	{"ecchi", "dark"},
	{"school", "wholesome"},
	{"military", "sacrifice"},
	{"historical", "flashback"},
}

// maxSeedTags caps the tags attached to a seeded scene.
const maxSeedTags = 3

// AssignTags picks up to three tag ids suggested by the genres. Tag names missing from byName
// are dropped after the cap is applied.
func AssignTags(genres []string, byName map[string]int64) []int64 {
	have := make(map[string]bool, len(genres))
	for _, g := range genres {
		have[strings.ToLower(g)] = true
	}

	var picked []string
	for _, gt := range genreTags {
		if have[gt.genre] && !contains(picked, gt.tag) {
			picked = append(picked, gt.tag)
		}
	}
	if len(picked) > maxSeedTags {
		picked = picked[:maxSeedTags]
	}

	ids := make([]int64, 0, len(picked))
	for _, name := range picked {
		if id, ok := byName[name]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// DefaultTagModels converts the default tag set into rows for seeding.
func DefaultTagModels() []models.Tag {
	out := make([]models.Tag, 0, len(shared.DefaultTags))
	for _, t := range shared.DefaultTags {
		out = append(out, models.Tag{Name: t.Name, Category: string(t.Category), Color: t.Color})
	}
	return out
}
