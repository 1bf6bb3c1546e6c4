// MDBList Scrobbler - Kodi playback progress reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mdblist-scrobbler

package ids

import (
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/mdblist-scrobbler/internal/models"
)

// Canonical identifier schemes.
const (
	SchemeIMDb    = "imdb"
	SchemeTMDb    = "tmdb"
	SchemeTrakt   = "trakt"
	SchemeTVDb    = "tvdb"
	SchemeKitsu   = "kitsu"
	SchemeMDBList = "mdblist"

	// unknownKey is the key Kodi uses when the scraper did not name the scheme.
	unknownKey = "unknown"
)

// Set maps a canonical scheme to its identifier value. Values keep the type
// Kodi reported (usually string, occasionally a number).
type Set map[string]any

// Empty reports whether the set carries no usable identifiers.
func (s Set) Empty() bool {
	return len(s) == 0
}

// Has reports whether the set contains the scheme.
func (s Set) Has(scheme string) bool {
	_, ok := s[scheme]
	return ok
}

var supported = map[models.MediaType]map[string]struct{}{
	models.MediaTypeMovie: {
		SchemeIMDb:    {},
		SchemeTMDb:    {},
		SchemeTrakt:   {},
		SchemeKitsu:   {},
		SchemeMDBList: {},
	},
	models.MediaTypeEpisode: {
		SchemeIMDb:    {},
		SchemeTMDb:    {},
		SchemeTrakt:   {},
		SchemeTVDb:    {},
		SchemeMDBList: {},
	},
}

var aliases = map[string]string{
	"imdbnumber": SchemeIMDb,
	"imdb_id":    SchemeIMDb,
	"themoviedb": SchemeTMDb,
	"tmdb_id":    SchemeTMDb,
	"tvdb_id":    SchemeTVDb,
	"trakt_id":   SchemeTrakt,
	"kitsu_id":   SchemeKitsu,
	"mdblist_id": SchemeMDBList,
}

// Supported reports whether scheme is accepted for the media type.
func Supported(scheme string, mediaType models.MediaType) bool {
	_, ok := supported[mediaType][scheme]
	return ok
}

// CanonicalKey lower-cases and trims a raw key and resolves known aliases.
func CanonicalKey(raw string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	if mapped, ok := aliases[key]; ok {
		return mapped
	}
	return key
}

// Normalize converts raw Kodi unique ids into a canonical Set for mediaType.
//
// Entries with nil or empty-string values are dropped, as is anything whose
// canonical key is "unknown". When nothing survives and the raw input has an
// "unknown" key, its value is classified by format (see coerceUnknown). The
// result only contains schemes supported for mediaType; unknown media types
// always yield an empty set. The input is never modified.
func Normalize(raw map[string]any, mediaType models.MediaType) Set {
	result := Set{}
	if raw == nil {
		return result
	}

	canonical := make(map[string]any, len(raw))
	exact := make(map[string]bool, len(raw))
	for _, rawKey := range slices.Sorted(maps.Keys(raw)) {
		value := raw[rawKey]
		if isBlank(value) {
			continue
		}
		key := CanonicalKey(rawKey)
		if key == unknownKey {
			continue
		}
		// A key already spelled canonically beats any alias for it.
		isExact := strings.ToLower(strings.TrimSpace(rawKey)) == key
		if exact[key] && !isExact {
			continue
		}
		canonical[key] = value
		exact[key] = exact[key] || isExact
	}

	if len(canonical) == 0 {
		if value, ok := raw[unknownKey]; ok {
			if scheme, coerced, ok := coerceUnknown(value, mediaType); ok {
				canonical[scheme] = coerced
			}
		}
	}

	for key, value := range canonical {
		if Supported(key, mediaType) {
			result[key] = value
		}
	}
	return result
}

// coerceUnknown guesses the scheme of an id reported under "unknown".
// IMDb ids start with "tt"; bare numbers are TVDb ids for episodes and TMDb ids
// for everything else. Anything else cannot be classified.
func coerceUnknown(value any, mediaType models.MediaType) (string, any, bool) {
	numericScheme := SchemeTMDb
	if mediaType == models.MediaTypeEpisode {
		numericScheme = SchemeTVDb
	}

	switch v := value.(type) {
	case nil:
		return "", nil, false
	case string:
		cleaned := strings.TrimSpace(v)
		if cleaned == "" {
			return "", nil, false
		}
		if strings.HasPrefix(cleaned, "tt") {
			return SchemeIMDb, cleaned, true
		}
		if isDigits(cleaned) {
			return numericScheme, cleaned, true
		}
		return "", nil, false
	case int:
		return numericScheme, v, true
	case int32:
		return numericScheme, int(v), true
	case int64:
		return numericScheme, v, true
	case float64:
		// JSON decoding turns integers into float64.
		if v == math.Trunc(v) && !math.IsInf(v, 0) {
			return numericScheme, int64(v), true
		}
		return "", nil, false
	case json.Number:
		if n, err := strconv.ParseInt(v.String(), 10, 64); err == nil {
			return numericScheme, n, true
		}
		return "", nil, false
	default:
		return "", nil, false
	}
}

func isBlank(value any) bool {
	if value == nil {
		return true
	}
	if s, ok := value.(string); ok && s == "" {
		return true
	}
	return false
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
