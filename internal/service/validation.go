package service

import (
	"net/mail"
	"strings"
	"time"
)

// validator collects field errors in the order they are checked.
type validator struct {
	errs []FieldError
}

func (v *validator) check(ok bool, param, msg string) {
	if !ok {
		v.errs = append(v.errs, FieldError{Param: param, Msg: msg})
	}
}

func (v *validator) required(value, param, msg string) {
	v.check(strings.TrimSpace(value) != "", param, msg)
}

func (v *validator) err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return &ValidationError{Errors: v.errs}
}

func isEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

// parseDate accepts a calendar date (2006-01-02) or an RFC 3339 timestamp.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), true
	}
	return time.Time{}, false
}

// dateRange validates from and the optional to, in that order, and reports
// a reversed range against "to".
func (v *validator) dateRange(from, to string) (time.Time, *time.Time) {
	var (
		start time.Time
		end   *time.Time
	)

	if strings.TrimSpace(from) == "" {
		v.check(false, "from", "From date is required")
	} else if t, ok := parseDate(from); ok {
		start = t
	} else {
		v.check(false, "from", "From date must be a valid date")
	}

	if strings.TrimSpace(to) != "" {
		if t, ok := parseDate(to); ok {
			end = &t
			v.check(start.IsZero() || start.Before(t), "to", "To date must be after from date")
		} else {
			v.check(false, "to", "To date must be a valid date")
		}
	}

	return start, end
}

// splitSkills turns "go, sql ,, redis" into ["go", "sql", "redis"].
func splitSkills(s string) []string {
	skills := []string{}
	for _, part := range strings.Split(s, ",") {
		if skill := strings.TrimSpace(part); skill != "" {
			skills = append(skills, skill)
		}
	}
	return skills
}
