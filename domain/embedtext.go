package domain

import "strings"

// BuildEmbeddingText serializes the embedding-relevant profile fields into
// the canonical text that gets embedded. The section order is fixed here, so
// the same field values always produce byte-identical output regardless of
// how the caller assembled them.
func BuildEmbeddingText(name string, jobTypes []JobType, bio string, tags, cities []string) string {
	jobTypeStrs := make([]string, len(jobTypes))
	for i, jt := range jobTypes {
		jobTypeStrs[i] = string(jt)
	}

	sections := []string{
		"Name: " + name,
		"Job Types: " + strings.Join(jobTypeStrs, ", "),
		"Bio: " + bio,
		"Tags: " + strings.Join(tags, ", "),
		"Serviceable Cities: " + strings.Join(cities, ", "),
	}

	return strings.Join(sections, "\n\n")
}
