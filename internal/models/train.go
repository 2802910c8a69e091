package models

import (
	"sort"
	"strings"
)

type Train struct {
	Number    string   `json:"train_no"`
	Name      string   `json:"train_name"`
	From      string   `json:"from"`
	To        string   `json:"to"`
	Arrival   string   `json:"arrival"`
	Departure string   `json:"departure"`
	Stop      string   `json:"stop"`
	Classes   []string `json:"classes"`
}

// NewClassSet splits a whitespace separated class list into unique codes
// in lexicographic order.
func NewClassSet(list string) []string {
	seen := make(map[string]struct{})
	classes := []string{}
	for _, token := range strings.Fields(list) {
		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}
		classes = append(classes, token)
	}
	sort.Strings(classes)
	return classes
}

func (t Train) Offers(class string) bool {
	i := sort.SearchStrings(t.Classes, class)
	return i < len(t.Classes) && t.Classes[i] == class
}

func (t Train) ClassList() string {
	return strings.Join(t.Classes, " ")
}
