// Package catalog holds the immutable course reference data the engines
// evaluate against.
package catalog

import (
	"sort"
	"strconv"
	"strings"
)

// Course is one catalog entry. Reference data, never mutated after load.
type Course struct {
	Code          string   `yaml:"code" json:"code"`
	Title         string   `yaml:"title" json:"title"`
	Credits       int      `yaml:"credits" json:"credits"`
	Prerequisites []string `yaml:"prerequisites" json:"prerequisites,omitempty"`
	Type          string   `yaml:"type" json:"type,omitempty"` // e.g. Core, Required, Elective
	Footnote      int      `yaml:"footnote" json:"footnote,omitempty"`
}

// Subject returns the subject prefix of the course code ("CS 1332" -> "CS").
func (c Course) Subject() string {
	subject, _ := SplitCode(c.Code)
	return subject
}

// Level returns the numeric course number ("CS 1332" -> 1332), or 0 when the
// code has no numeric part.
func (c Course) Level() int {
	_, level := SplitCode(c.Code)
	return level
}

// SplitCode splits a course code into subject and numeric level. Codes are
// "SUBJECT NUMBER"; a missing or non-numeric number yields level 0.
func SplitCode(code string) (string, int) {
	fields := strings.Fields(code)
	if len(fields) == 0 {
		return "", 0
	}
	subject := fields[0]
	if len(fields) < 2 {
		return subject, 0
	}
	// Trim trailing letters: "1332X" -> 1332.
	num := fields[1]
	end := 0
	for end < len(num) && num[end] >= '0' && num[end] <= '9' {
		end++
	}
	level, err := strconv.Atoi(num[:end])
	if err != nil {
		return subject, 0
	}
	return subject, level
}

// Catalog is an immutable, code-indexed set of courses.
type Catalog struct {
	courses map[string]Course
}

// New builds a catalog from a flat course list. Later duplicates of a code
// replace earlier ones.
func New(courses []Course) *Catalog {
	indexed := make(map[string]Course, len(courses))
	for _, c := range courses {
		if c.Code == "" {
			continue
		}
		indexed[c.Code] = c
	}
	return &Catalog{courses: indexed}
}

// Course looks up a course by code.
func (c *Catalog) Course(code string) (Course, bool) {
	course, ok := c.courses[code]
	return course, ok
}

// AllCourses returns every course ordered by code.
func (c *Catalog) AllCourses() []Course {
	all := make([]Course, 0, len(c.courses))
	for _, course := range c.courses {
		all = append(all, course)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Code < all[j].Code })
	return all
}

// Len returns the number of courses in the catalog.
func (c *Catalog) Len() int {
	return len(c.courses)
}
