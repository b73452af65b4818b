// File: help.go
// Title: Help Listings
// Description: Turns help matches into listing items and renders them as
//              plain text for byte oriented terminals.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-04
// Modified: 2026-10-04

package registry

import (
	"fmt"
	"io"
	"strings"

	gcstringx "github.com/msto63/gecli/foundation/utils/stringx"
)

// HelpItem is one line of a help listing
type HelpItem struct {
	Name  string
	Help  string
	Usage string
	Group bool
}

// Topic is the detailed help of a single command
type Topic struct {
	Path  string
	Help  string
	Usage string
	Args  []HelpItem
}

// Help lists the visible entries of a table. Group names carry no usage.
func Help(table Table) []HelpItem {
	var items []HelpItem
	seen := make(map[string]bool)
	for _, e := range table.Entries() {
		if e.Shortcut || seen[e.Name] {
			continue
		}
		seen[e.Name] = true
		items = append(items, HelpItem{
			Name:  e.Name,
			Help:  e.Descriptor.Help,
			Usage: e.Descriptor.Usage(),
			Group: e.Descriptor.IsGroup(),
		})
	}
	return items
}

// DescribeTopic builds the detailed help of the command named by path
func DescribeTopic(path []string, d *Descriptor) Topic {
	topic := Topic{
		Path:  strings.Join(path, " "),
		Help:  d.Help,
		Usage: d.Usage(),
	}
	for i, t := range d.Types {
		if i >= len(d.ArgHelp) {
			break
		}
		topic.Args = append(topic.Args, HelpItem{Name: t.String(), Help: d.ArgHelp[i]})
	}
	return topic
}

// WriteHelp renders a help match. Listings show one command per line with
// aligned help text; a topic shows the usage line followed by the
// argument descriptions.
func WriteHelp(w io.Writer, m *Match) error {
	if m.Topic != nil {
		return writeTopic(w, DescribeTopic(m.TopicPath, m.Topic))
	}

	items := Help(m.Listing)
	width := 0
	for _, item := range items {
		width = max(width, len(item.Name))
	}

	for _, item := range items {
		line := "  " + gcstringx.PadRight(item.Name, width, ' ')
		if item.Help != "" {
			line += "  " + item.Help
		}
		if _, err := fmt.Fprint(w, strings.TrimRight(line, " ")+"\r\n"); err != nil {
			return err
		}
	}
	return nil
}

func writeTopic(w io.Writer, topic Topic) error {
	usage := strings.TrimSpace(topic.Path + " " + topic.Usage)
	if _, err := fmt.Fprintf(w, "%s\r\n", usage); err != nil {
		return err
	}
	if topic.Help != "" {
		if _, err := fmt.Fprintf(w, "  %s\r\n", topic.Help); err != nil {
			return err
		}
	}

	width := 0
	for _, arg := range topic.Args {
		width = max(width, len(arg.Name))
	}
	for _, arg := range topic.Args {
		if _, err := fmt.Fprintf(w, "    %s  %s\r\n", gcstringx.PadRight(arg.Name, width, ' '), arg.Help); err != nil {
			return err
		}
	}
	return nil
}
