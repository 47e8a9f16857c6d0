package main

import (
	"bufio"
	"io"
	"strings"
)

// consoleLoop reads operator commands from r (normally stdin) and advances
// the game on "next"/"n". It is one of two advance producers; the HTTP
// trigger is the other. Returns quietly on EOF so the server keeps running
// when stdin is closed (e.g. under a process supervisor).
func consoleLoop(cfg *Config, session *Session, r io.Reader) {
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		switch strings.TrimSpace(scanner.Text()) {
		case "next", "n", "advance":
			session.Advance(cfg)
		case "":
		default:
			logf(cfg, "CONSOLE: Unknown command (try \"next\")")
		}
	}
}
