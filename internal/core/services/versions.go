package services

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/askpdf-cli/internal/core/domain"
	"github.com/custodia-labs/askpdf-cli/internal/logger"
)

// Version suffix patterns on the file stem (name without extension).
var (
	letteredSuffixRe = regexp.MustCompile(`^(.*)_([A-Z])$`)
	numberedSuffixRe = regexp.MustCompile(`^(.*)_(\d+)$`)
)

// VersionSelector picks the newest variant of each logical document from a
// raw input directory. Selection is pure: no file is copied or modified.
type VersionSelector struct{}

// NewVersionSelector creates a new version selector.
func NewVersionSelector() *VersionSelector {
	return &VersionSelector{}
}

// Select scans dir and returns one selection per logical document, ordered
// by base name. An empty directory yields an empty selection without error.
func (s *VersionSelector) Select(dir string) ([]domain.Selection, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read raw directory: %w", err)
	}

	groups := make(map[string][]domain.Variant)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			logger.Warn("Skipping unreadable entry %s: %v", entry.Name(), err)
			continue
		}

		variant := parseVariant(dir, entry.Name(), info.ModTime())
		groups[variant.BaseName] = append(groups[variant.BaseName], variant)
	}

	bases := make([]string, 0, len(groups))
	for base := range groups {
		bases = append(bases, base)
	}
	sort.Strings(bases)

	selections := make([]domain.Selection, 0, len(bases))
	for _, base := range bases {
		winner := selectVariant(groups[base])
		logger.Debug("Selected %s for %s (%s)", winner.FileName, base, describeVariant(winner))
		selections = append(selections, domain.Selection{
			Variant:     winner,
			Description: describeVariant(winner),
		})
	}

	return selections, nil
}

// parseVariant derives (base name, kind, rank) from a file name.
// A trailing _<single-uppercase-letter> on the stem marks a lettered
// version, a trailing _<integer> a numbered version; anything else is the
// unversioned base with rank -1.
func parseVariant(dir, name string, modTime time.Time) domain.Variant {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	variant := domain.Variant{
		Path:     filepath.Join(dir, name),
		FileName: name,
		BaseName: stem + ext,
		Kind:     domain.VersionBase,
		Rank:     -1,
		ModTime:  modTime,
	}

	if m := numberedSuffixRe.FindStringSubmatch(stem); m != nil {
		rank, err := strconv.Atoi(m[2])
		if err == nil {
			variant.BaseName = m[1] + ext
			variant.Kind = domain.VersionNumbered
			variant.Rank = rank
		}
		return variant
	}

	if m := letteredSuffixRe.FindStringSubmatch(stem); m != nil {
		variant.BaseName = m[1] + ext
		variant.Kind = domain.VersionLettered
		variant.Rank = int(m[2][0] - 'A')
	}

	return variant
}

// selectVariant returns the variant maximising (kind priority, rank,
// modification time). Numbered beats lettered beats base.
func selectVariant(variants []domain.Variant) domain.Variant {
	winner := variants[0]
	for _, v := range variants[1:] {
		if variantLess(winner, v) {
			winner = v
		}
	}
	return winner
}

// variantLess reports whether b outranks a.
func variantLess(a, b domain.Variant) bool {
	if a.Kind.Priority() != b.Kind.Priority() {
		return a.Kind.Priority() < b.Kind.Priority()
	}
	if a.Rank != b.Rank {
		return a.Rank < b.Rank
	}
	return a.ModTime.Before(b.ModTime)
}

// describeVariant renders the chosen suffix for humans.
func describeVariant(v domain.Variant) string {
	switch v.Kind {
	case domain.VersionNumbered:
		return fmt.Sprintf("numbered revision %d", v.Rank)
	case domain.VersionLettered:
		return fmt.Sprintf("lettered revision %c", rune('A'+v.Rank))
	default:
		return "base file"
	}
}
