package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/msto63/gecli/foundation/cli"
	"github.com/msto63/gecli/foundation/cli/registry"
	gcstringx "github.com/msto63/gecli/foundation/utils/stringx"
)

// HelpWriter renders help listings and topics with s. Listings show the
// usage of each command next to its help text; groups are marked with a
// trailing slash.
func HelpWriter(s *Styles) cli.HelpWriter {
	return func(w io.Writer, m *registry.Match) error {
		if m.Topic != nil {
			return writeTopic(w, s, registry.DescribeTopic(m.TopicPath, m.Topic))
		}
		return writeListing(w, s, registry.Help(m.Listing))
	}
}

func writeListing(w io.Writer, s *Styles, items []registry.HelpItem) error {
	names := make([]string, len(items))
	width := 0
	for i, item := range items {
		names[i] = item.Name
		if item.Group {
			names[i] += "/"
		} else if item.Usage != "" {
			names[i] += " " + item.Usage
		}
		width = max(width, len(names[i]))
	}

	for i, item := range items {
		name, usage, _ := strings.Cut(names[i], " ")
		style := s.Command
		if item.Group {
			style = s.Group
		}

		var b strings.Builder
		b.WriteString("  ")
		b.WriteString(style.Render(name))
		if usage != "" {
			b.WriteString(" " + s.Usage.Render(usage))
		}
		if item.Help != "" {
			b.WriteString(strings.Repeat(" ", width-len(names[i])+2))
			b.WriteString(s.Help.Render(item.Help))
		}
		b.WriteString("\r\n")
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
	}
	return nil
}

func writeTopic(w io.Writer, s *Styles, topic registry.Topic) error {
	line := s.Command.Render(topic.Path)
	if topic.Usage != "" {
		line += " " + s.Usage.Render(topic.Usage)
	}
	if _, err := fmt.Fprintf(w, "%s\r\n", line); err != nil {
		return err
	}
	if topic.Help != "" {
		if _, err := fmt.Fprintf(w, "  %s\r\n", s.Help.Render(topic.Help)); err != nil {
			return err
		}
	}

	width := 0
	for _, arg := range topic.Args {
		width = max(width, len(arg.Name))
	}
	for _, arg := range topic.Args {
		name := s.ArgType.Render(gcstringx.PadRight(arg.Name, width, ' '))
		if _, err := fmt.Fprintf(w, "    %s  %s\r\n", name, arg.Help); err != nil {
			return err
		}
	}
	return nil
}

// Banner returns the greeting printed when an interactive session starts
func Banner(s *Styles, name, version string) string {
	return s.Title.Render(name+" "+version) + "\r\n" +
		s.Subtitle.Render("type help to list commands") + "\r\n"
}

// Failure formats an error line for command output
func Failure(s *Styles, err error) string {
	return s.Error.Render("error: "+err.Error()) + "\r\n"
}
