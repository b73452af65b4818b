package demo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/msto63/gecli/foundation/cli/argument"
	"github.com/msto63/gecli/foundation/cli/registry"
	"github.com/msto63/gecli/foundation/cli/session"
	gclog "github.com/msto63/gecli/foundation/core/log"
	"github.com/msto63/gecli/pkg/core/version"
)

// App holds the state shared by the demo commands
type App struct {
	name    string
	started time.Time
	led     *LED
	logger  *gclog.Logger
	now     func() time.Time
}

// New creates the demo application
func New(name string, logger *gclog.Logger) *App {
	if logger == nil {
		logger = gclog.GetDefault()
	}
	return &App{
		name:    name,
		started: time.Now(),
		led:     &LED{},
		logger:  logger.WithField("component", "demo"),
		now:     time.Now,
	}
}

// LED returns the simulated RGB LED
func (a *App) LED() *LED { return a.led }

// Commands returns the demo command group
func (a *App) Commands() *registry.Group {
	rgb := registry.Table{
		{Name: "set", Descriptor: registry.MustCommand(registry.HandlerFunc(a.rgbSet), "Set the LED colour",
			[]argument.Type{argument.Uint8, argument.Uint8, argument.Uint8}, "red", "green", "blue")},
		{Name: "get", Descriptor: registry.MustCommand(registry.HandlerFunc(a.rgbGet), "Show the LED colour", nil)},
		{Name: "wheel", Descriptor: registry.MustCommand(registry.HandlerFunc(a.rgbWheel), "Set the LED to a colour wheel angle",
			[]argument.Type{argument.Uint16}, "angle in degrees")},
	}

	info := registry.MustCommand(registry.HandlerFunc(a.info), "Show application information",
		[]argument.Type{argument.StringOpt}, "name, version, uptime or session")

	return &registry.Group{Name: "demo", Table: registry.Table{
		{Name: "print", Descriptor: registry.MustCommand(registry.HandlerFunc(a.print), "Print the arguments",
			[]argument.Type{argument.Wildcard})},
		{Name: "hexdump", Descriptor: registry.MustCommand(registry.HandlerFunc(a.hexdump), "Dump a hex argument",
			[]argument.Type{argument.Hex}, "bytes, e.g. {de ad be ef}")},
		{Name: "sum", Descriptor: registry.MustCommand(registry.HandlerFunc(a.sum), "Add numbers",
			[]argument.Type{argument.Uint32, argument.Additional}, "numbers")},
		{Name: "rgb", Descriptor: registry.NewGroup("RGB LED", rgb)},
		{Name: "delay", Descriptor: registry.MustCommand(registry.HandlerFunc(a.delay), "Wait without blocking other sessions",
			[]argument.Type{argument.Uint32}, "milliseconds")},
		{Name: "info", Descriptor: info},
		{Name: "?", Descriptor: info, Shortcut: true},
	}}
}

func (a *App) print(ctx context.Context, args *argument.Arguments) {
	fmt.Fprintf(session.Output(ctx), "%s\r\n", strings.Join(args.Strings(0), " "))
}

func (a *App) hexdump(ctx context.Context, args *argument.Arguments) {
	out := session.Output(ctx)
	data := args.Hex(0)
	if len(data) == 0 {
		fmt.Fprint(out, "(empty)\r\n")
		return
	}
	for offset := 0; offset < len(data); offset += 16 {
		end := min(offset+16, len(data))
		parts := make([]string, 0, end-offset)
		for _, b := range data[offset:end] {
			parts = append(parts, fmt.Sprintf("%02x", b))
		}
		fmt.Fprintf(out, "%08x  %s\r\n", offset, strings.Join(parts, " "))
	}
}

func (a *App) sum(ctx context.Context, args *argument.Arguments) {
	var total uint64
	for _, v := range args.Tail(0) {
		total += uint64(v.Uint32())
	}
	fmt.Fprintf(session.Output(ctx), "sum = %d\r\n", total)
}

func (a *App) info(ctx context.Context, args *argument.Arguments) {
	out := session.Output(ctx)
	sess, _ := session.FromContext(ctx)

	fields := []struct{ key, value string }{
		{"name", a.name},
		{"version", version.ComponentVersion("demo")},
		{"uptime", a.now().Sub(a.started).Truncate(time.Second).String()},
	}
	if sess != nil {
		fields = append(fields, struct{ key, value string }{"session", sess.ID()})
	}

	if args.Has(0) {
		for _, f := range fields {
			if f.key == args.String(0) {
				fmt.Fprintf(out, "%s\r\n", f.value)
				return
			}
		}
		fmt.Fprintf(out, "unknown field %q\r\n", args.String(0))
		return
	}
	for _, f := range fields {
		fmt.Fprintf(out, "%-8s %s\r\n", f.key, f.value)
	}
}
