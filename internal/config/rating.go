package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ezBadminton/volleyrank/rating"
	"github.com/ezBadminton/volleyrank/volleyball"
)

var ErrUnknownSelector = errors.New("unknown season or category")

// DefaultResource is the file name pattern of a season's category
// results.
const DefaultResource = "FFVB-{season}-CDF-{category}.CSV"

type ModelConfig struct {
	Mu              *float64 `yaml:"mu"`
	Sigma           *float64 `yaml:"sigma"`
	Beta            *float64 `yaml:"beta"`
	Tau             *float64 `yaml:"tau"`
	DrawProbability *float64 `yaml:"draw_probability"`
	TightWeight     *float64 `yaml:"tight_weight"`
	Strategy        string   `yaml:"strategy"`
}

// ScoreConfig overrides the score rules used to check set scores.
type ScoreConfig struct {
	WinningPoints  *int `yaml:"winning_points"`
	TieBreakPoints *int `yaml:"tie_break_points"`
	WinningSets    *int `yaml:"winning_sets"`
}

type Category struct {
	Code string `yaml:"code"`
	Name string `yaml:"name"`
}

type RatingFile struct {
	Rating     ModelConfig `yaml:"rating"`
	Score      ScoreConfig `yaml:"score"`
	Seasons    []string    `yaml:"seasons"`
	Categories []Category  `yaml:"categories"`
	Resource   string      `yaml:"resource"`
}

func LoadRating(path string) (RatingFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RatingFile{}, fmt.Errorf("read rating config: %w", err)
	}

	var file RatingFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return RatingFile{}, fmt.Errorf("parse rating config: %w", err)
	}
	if file.Resource == "" {
		file.Resource = DefaultResource
	}
	return file, nil
}

// Model overrides the default model with the configured values.
func (mc ModelConfig) Model() (rating.Model, error) {
	m := rating.DefaultModel()
	set := func(dst *float64, v *float64) {
		if v != nil {
			*dst = *v
		}
	}
	set(&m.Mu, mc.Mu)
	set(&m.Sigma, mc.Sigma)
	set(&m.Beta, mc.Beta)
	set(&m.Tau, mc.Tau)
	set(&m.DrawProbability, mc.DrawProbability)
	set(&m.TightWeight, mc.TightWeight)

	if err := m.Validate(); err != nil {
		return m, fmt.Errorf("rating model: %w", err)
	}
	return m, nil
}

// Settings overrides the default score settings with the configured
// values.
func (sc ScoreConfig) Settings() (volleyball.ScoreSettings, error) {
	def := volleyball.DefaultSettings
	pick := func(v *int, fallback int) int {
		if v != nil {
			return *v
		}
		return fallback
	}
	settings, err := volleyball.NewScoreSettings(
		pick(sc.WinningPoints, def.WinningPoints),
		pick(sc.TieBreakPoints, def.TieBreakPoints),
		pick(sc.WinningSets, def.WinningSets),
	)
	if err != nil {
		return settings, fmt.Errorf("score settings: %w", err)
	}
	return settings, nil
}

func (rf RatingFile) Category(code string) (Category, bool) {
	for _, c := range rf.Categories {
		if strings.EqualFold(c.Code, code) {
			return c, true
		}
	}
	return Category{}, false
}

// ResourceName returns the results file name of a season and category.
func (rf RatingFile) ResourceName(season, category string) (string, error) {
	if len(rf.Seasons) > 0 && !contains(rf.Seasons, season) {
		return "", fmt.Errorf("%w: season %s", ErrUnknownSelector, season)
	}
	if len(rf.Categories) > 0 {
		if _, ok := rf.Category(category); !ok {
			return "", fmt.Errorf("%w: category %s", ErrUnknownSelector, category)
		}
	}

	resource := rf.Resource
	if resource == "" {
		resource = DefaultResource
	}
	r := strings.NewReplacer("{season}", season, "{category}", strings.ToUpper(category))
	return r.Replace(resource), nil
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
