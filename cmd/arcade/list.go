package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/battle-arcade/internal/multiplayer"
	"github.com/vovakirdan/battle-arcade/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available games",
	Long:  `Shows the registered games and which of them can be played online over SSH.`,
	Run:   runList,
}

// playModes describes how a game can be played.
func playModes(id string) string {
	g, err := registry.Create(id)
	if err != nil {
		return "-"
	}
	if _, ok := g.(multiplayer.OnlineGame); ok {
		return "local, online"
	}
	return "local"
}

func runList(_ *cobra.Command, _ []string) {
	games := registry.List()
	if len(games) == 0 {
		fmt.Println("No games registered.")
		return
	}

	idW, titleW := len("ID"), len("Title")
	for _, g := range games {
		idW = max(idW, len(g.ID))
		titleW = max(titleW, len(g.Title))
	}

	fmt.Printf("  %-*s  %-*s  %s\n", idW, "ID", titleW, "Title", "Modes")
	for _, g := range games {
		fmt.Printf("  %-*s  %-*s  %s\n", idW, g.ID, titleW, g.Title, playModes(g.ID))
	}
	fmt.Println()
	fmt.Println("Run 'arcade play <id>' to play, or 'arcade serve' to host online battles.")
}
