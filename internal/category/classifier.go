// Package category implements the keyword/category rule engine used to
// assign trending videos to coarse content categories.
package category

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var defaultRules []byte

// AllCategories is the pass-through key: no filtering applied.
const AllCategories = "all"

// Rule is the declarative form of one category filter as written in the
// rules file.
type Rule struct {
	CategoryIDs []int    `yaml:"category_ids"`
	Include     []string `yaml:"include"`
	Exclude     []string `yaml:"exclude"`
}

type compiledRule struct {
	key         string
	categoryIDs map[int]struct{}
	include     []*regexp.Regexp
	exclude     []*regexp.Regexp
}

// Classifier holds the compiled rule set. Rules are loaded once at startup
// and immutable thereafter.
type Classifier struct {
	rules map[string]*compiledRule
	keys  []string
}

// Load builds a Classifier from the YAML file at path, or from the embedded
// default rule set when path is empty.
func Load(path string) (*Classifier, error) {
	raw := defaultRules
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read category rules: %w", err)
		}
		raw = b
	}

	var rules map[string]Rule
	if err := yaml.Unmarshal(raw, &rules); err != nil {
		return nil, fmt.Errorf("parse category rules: %w", err)
	}
	return New(rules)
}

// New compiles a rule map into a Classifier. Keys are case-insensitive.
func New(rules map[string]Rule) (*Classifier, error) {
	c := &Classifier{rules: make(map[string]*compiledRule, len(rules))}
	for key, rule := range rules {
		key = strings.ToLower(strings.TrimSpace(key))
		if key == "" || key == AllCategories {
			continue
		}
		cr := &compiledRule{
			key:         key,
			categoryIDs: make(map[int]struct{}, len(rule.CategoryIDs)),
		}
		for _, id := range rule.CategoryIDs {
			cr.categoryIDs[id] = struct{}{}
		}
		var err error
		if cr.include, err = compileKeywords(rule.Include); err != nil {
			return nil, fmt.Errorf("rule %q: %w", key, err)
		}
		if cr.exclude, err = compileKeywords(rule.Exclude); err != nil {
			return nil, fmt.Errorf("rule %q: %w", key, err)
		}
		c.rules[key] = cr
		c.keys = append(c.keys, key)
	}
	sort.Strings(c.keys)
	return c, nil
}

// compileKeywords turns keywords into whole-word, case-insensitive matchers.
// Word boundaries keep "art" from matching "party".
func compileKeywords(keywords []string) ([]*regexp.Regexp, error) {
	patterns := make([]*regexp.Regexp, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(kw) + `\b`)
		if err != nil {
			return nil, fmt.Errorf("keyword %q: %w", kw, err)
		}
		patterns = append(patterns, re)
	}
	return patterns, nil
}

// Known reports whether key names a configured category rule. Unknown keys
// mean "no filtering applied" rather than an error.
func (c *Classifier) Known(key string) bool {
	_, ok := c.rules[strings.ToLower(strings.TrimSpace(key))]
	return ok
}

// Keys returns the configured category keys in sorted order.
func (c *Classifier) Keys() []string {
	return c.keys
}

// Matches decides whether a video belongs to the given category. In order,
// short-circuiting:
//
//  1. category id in the rule's id set → match
//  2. empty text blob → no match
//  3. any exclude keyword in the blob → no match
//  4. any include keyword in the blob → match
//  5. otherwise no match
//
// An unknown key matches everything (lenient pass-through).
func (c *Classifier) Matches(key, categoryID, title, description string, tags any) bool {
	rule, ok := c.rules[strings.ToLower(strings.TrimSpace(key))]
	if !ok {
		return true
	}

	if id, err := strconv.Atoi(strings.TrimSpace(categoryID)); err == nil {
		if _, hit := rule.categoryIDs[id]; hit {
			return true
		}
	}

	blob := textBlob(title, description, tags)
	if strings.TrimSpace(blob) == "" {
		return false
	}

	for _, re := range rule.exclude {
		if re.MatchString(blob) {
			return false
		}
	}
	for _, re := range rule.include {
		if re.MatchString(blob) {
			return true
		}
	}
	return false
}

// Classify returns the first category key (in sorted key order) whose rule
// matches the video, or fallback when none does. Used for the reach benchmark
// lookup, which only needs a coarse label.
func (c *Classifier) Classify(categoryID, title, description string, tags any, fallback string) string {
	for _, key := range c.keys {
		if c.Matches(key, categoryID, title, description, tags) {
			return key
		}
	}
	return fallback
}

// textBlob joins title, description and tags into one searchable string.
// Tags may be a list or a scalar; everything is stringified and space-joined.
func textBlob(title, description string, tags any) string {
	parts := []string{title, description}
	switch t := tags.(type) {
	case nil:
	case []string:
		parts = append(parts, t...)
	case []any:
		for _, v := range t {
			parts = append(parts, fmt.Sprint(v))
		}
	case string:
		parts = append(parts, t)
	default:
		parts = append(parts, fmt.Sprint(t))
	}
	return strings.Join(parts, " ")
}
