package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/kana-drop/internal/catalog"
)

var stagesCmd = &cobra.Command{
	Use:   "stages",
	Short: "List stages, groups and spellings",
	Long:  `Shows every stage with its kana and accepted romaji, and the groups accepted by --groups.`,
	Args:  cobra.NoArgs,
	Run:   runStages,
}

func runStages(_ *cobra.Command, _ []string) {
	cat := catalog.Default()

	fmt.Println("Stages:")
	fmt.Println()
	for _, st := range cat.Stages() {
		parts := make([]string, 0, len(st.Glyphs))
		for _, g := range st.Glyphs {
			spellings := cat.MustSpellings(g)
			alts := make([]string, len(spellings))
			for i, sp := range spellings {
				alts[i] = string(sp)
			}
			parts = append(parts, fmt.Sprintf("%s=%s", g, strings.Join(alts, "/")))
		}
		fmt.Printf("  %2d  %-8s  %s\n", st.ID, st.Name, strings.Join(parts, "  "))
	}

	fmt.Println()
	fmt.Println("Groups:")
	fmt.Println()
	for _, g := range catalog.Groups {
		fmt.Printf("  %-6s  %s\n", g.ID, g.Label)
	}

	fmt.Println()
	fmt.Println("Run 'kanadrop play --groups a,ka' to play a selection.")
}
