package catalog

import "sort"

// Group is a named bundle of stages offered by the settings panel.
type Group struct {
	ID     string
	Label  string
	Stages []int
}

// Groups lists the selectable stage groups in display order.
var Groups = []Group{
	{ID: "a", Label: "あ行", Stages: []int{2}},
	{ID: "ka", Label: "か行", Stages: []int{3}},
	{ID: "sa", Label: "さ行", Stages: []int{4}},
	{ID: "ta", Label: "た行", Stages: []int{5}},
	{ID: "na", Label: "な行", Stages: []int{6}},
	{ID: "ha", Label: "は行", Stages: []int{7}},
	{ID: "ma", Label: "ま行", Stages: []int{8}},
	{ID: "ya", Label: "や行", Stages: []int{9}},
	{ID: "wa", Label: "わ行", Stages: []int{10}},
	{ID: "basic", Label: "F/J練習", Stages: []int{1}},
}

// GroupByID looks up a group.
func GroupByID(id string) (Group, bool) {
	for _, g := range Groups {
		if g.ID == id {
			return g, true
		}
	}
	return Group{}, false
}

// ResolveGroups returns the sorted, de-duplicated stage list for the given
// group IDs. Unknown IDs are reported in the second return value.
func ResolveGroups(ids []string) ([]int, []string) {
	seen := make(map[int]bool)
	var unknown []string
	for _, id := range ids {
		g, ok := GroupByID(id)
		if !ok {
			unknown = append(unknown, id)
			continue
		}
		for _, st := range g.Stages {
			seen[st] = true
		}
	}

	stages := make([]int, 0, len(seen))
	for st := range seen {
		stages = append(stages, st)
	}
	sort.Ints(stages)
	return stages, unknown
}

// GroupsFor returns the IDs of the groups whose stages are all contained in
// stages, in display order.
func GroupsFor(stages []int) []string {
	have := make(map[int]bool, len(stages))
	for _, st := range stages {
		have[st] = true
	}

	var ids []string
	for _, g := range Groups {
		all := len(g.Stages) > 0
		for _, st := range g.Stages {
			if !have[st] {
				all = false
				break
			}
		}
		if all {
			ids = append(ids, g.ID)
		}
	}
	return ids
}
