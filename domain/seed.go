package domain

import (
	"fmt"
	"strings"
	"time"

	errs "investor-lab/errors"
)

type Locale string

const (
	LocaleArabic  Locale = "ar"
	LocaleEnglish Locale = "en"
)

var seeds = map[Locale][]InvestorInput{
	LocaleArabic: {
		{Name: "جميع الوزارات", Description: "مجموعة جميع الوزارات الحكومية"},
		{Name: "جميع الهيئات", Description: "مجموعة جميع الهيئات الحكومية"},
		{Name: "الأمانات", Description: "قائمة الأمانات"},
		{Name: "الموردين", Description: "قائمة الموردين"},
	},
	LocaleEnglish: {
		{Name: "All Ministries", Description: "Group of all government ministries"},
		{Name: "All Authorities", Description: "Group of all government authorities"},
		{Name: "Secretariats", Description: "List of secretariats"},
		{Name: "Suppliers", Description: "List of suppliers"},
	},
}

// ParseLocale accepts "ar" or "en", case-insensitively. Empty means Arabic.
func ParseLocale(s string) (Locale, error) {
	l := Locale(strings.ToLower(strings.TrimSpace(s)))
	if l == "" {
		return LocaleArabic, nil
	}
	if _, ok := seeds[l]; !ok {
		return "", fmt.Errorf("%w: %q", errs.ErrUnknownLocale, s)
	}
	return l, nil
}

// SeedNames lists the names of the default records, in seed order.
func SeedNames(locale Locale) []string {
	inputs := seeds[locale]
	names := make([]string, 0, len(inputs))
	for _, in := range inputs {
		names = append(names, in.Name)
	}
	return names
}

// SeedInvestors builds the four default records used when nothing usable is stored.
// Every record shares the same timestamp and gets a fresh ID from newID.
func SeedInvestors(locale Locale, now time.Time, newID func() string) []ExternalInvestor {
	inputs, ok := seeds[locale]
	if !ok {
		inputs = seeds[LocaleArabic]
	}
	investors := make([]ExternalInvestor, 0, len(inputs))
	for _, in := range inputs {
		investors = append(investors, ExternalInvestor{
			ID:          newID(),
			Name:        in.Name,
			Description: in.Description,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}
	return investors
}
