// Package command parses the batch input file and drives the domain
// services, one instruction at a time.
package command

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
)

// Kind discriminates the recognized instruction verbs.
type Kind int

const (
	// KindInsert upserts a row into a table.
	KindInsert Kind = iota
	// KindOrder places an order.
	KindOrder
	// KindDelete soft-deletes a row by natural key.
	KindDelete
	// KindReport requests a report for a table.
	KindReport
)

// Command is one parsed instruction.
type Command struct {
	Kind  Kind
	Table string
	Args  []string
}

// Parse reads line-oriented instructions: a verb-and-target prefix and a
// comma-space-separated argument list, split by ": ". Unrecognized verbs are
// logged and skipped.
func Parse(r io.Reader, log *zap.Logger) ([]Command, error) {
	var commands []Command

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		parts := strings.SplitN(line, ": ", 2)
		head := strings.Fields(strings.ToLower(parts[0]))
		if len(head) == 0 {
			continue
		}

		var args []string
		if len(parts) == 2 {
			args = strings.Split(parts[1], ", ")
		}

		switch head[0] {
		case "insert":
			if len(head) < 2 {
				log.Warn("insert without table, skipped", zap.String("line", line))
				continue
			}
			commands = append(commands, Command{Kind: KindInsert, Table: head[1], Args: args})
		case "order":
			commands = append(commands, Command{Kind: KindOrder, Table: "order", Args: args})
		case "delete":
			if len(head) < 2 {
				log.Warn("delete without table, skipped", zap.String("line", line))
				continue
			}
			commands = append(commands, Command{Kind: KindDelete, Table: head[1], Args: args})
		case "report":
			if len(head) < 2 {
				log.Warn("report without table, skipped", zap.String("line", line))
				continue
			}
			commands = append(commands, Command{Kind: KindReport, Table: head[1]})
		default:
			log.Warn("unknown command, skipped", zap.String("verb", head[0]), zap.String("line", line))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read commands: %w", err)
	}
	return commands, nil
}
