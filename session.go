package main

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	humanize "github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stesla/tnscope/internal/capture"
	"github.com/stesla/tnscope/internal/config"
)

// session is one run of the decoder over a capture script.
type session struct {
	cfg      *config.Config
	logger   zerolog.Logger
	replayer *capture.Replayer
	log      *LogHandler
	out      io.Writer
	verbose  bool
}

func newSession(cfg *config.Config, logger zerolog.Logger, out io.Writer) *session {
	s := &session{
		cfg:      cfg,
		logger:   logger,
		replayer: capture.NewReplayer(cfg, logger),
		log:      &LogHandler{Logger: logger},
		out:      out,
	}
	s.log.Register(s.replayer.Engine().Dispatcher())
	return s
}

func (s *session) Close() {
	s.log.Unregister()
}

func (s *session) run(ctx context.Context, r io.Reader) error {
	segs, err := capture.ReadScript(r)
	if err != nil {
		return errors.Wrap(err, "read capture")
	}
	s.logger.Debug().Int("segments", len(segs)).Msg("replaying")

	outs := s.replayer.Replay(ctx, segs)
	if s.verbose {
		s.printTrees(outs)
	} else {
		s.printFrames(outs)
	}
	s.printConversations()
	return nil
}

func (s *session) printFrames(outs []capture.Output) {
	table := tablewriter.NewWriter(s.out)
	table.SetHeader([]string{"Frame", "Conv", "Source", "Destination", "Bytes", "Summary"})
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetCaption(true, fmt.Sprintf("Total: %d segments.", len(outs)))
	for _, out := range outs {
		table.Append([]string{
			strconv.Itoa(out.Frame),
			strconv.Itoa(out.Conv.ID),
			out.Src.String(),
			out.Dst.String(),
			humanize.Bytes(uint64(len(out.Data))),
			summary(out),
		})
	}
	table.Render()
}

func summary(out capture.Output) string {
	if out.Held == 0 {
		return out.Summary
	}
	held := fmt.Sprintf("[%d bytes held]", out.Held)
	if out.Summary == "" {
		return held
	}
	return out.Summary + " " + held
}

func (s *session) printTrees(outs []capture.Output) {
	for _, out := range outs {
		fmt.Fprintf(s.out, "Frame %d, conversation %d: %s -> %s, %s\n",
			out.Frame, out.Conv.ID, out.Src, out.Dst, humanize.Bytes(uint64(len(out.Data))))
		for _, r := range out.Records {
			fmt.Fprintf(s.out, "%s%s\n", strings.Repeat("  ", r.Depth+1), r)
		}
		if out.Held > 0 {
			fmt.Fprintf(s.out, "  [%d bytes held]\n", out.Held)
		}
	}
	fmt.Fprintln(s.out)
}

func (s *session) printConversations() {
	convs := s.replayer.Conversations()
	table := tablewriter.NewWriter(s.out)
	table.SetHeader([]string{"Conv", "Endpoint A", "Endpoint B", "Protocol", "Frames", "Bytes", "Handoffs"})
	table.SetBorder(false)
	table.SetCaption(true, fmt.Sprintf("Total: %d conversations.", len(convs)))
	for _, c := range convs {
		table.Append([]string{
			strconv.Itoa(c.ID),
			c.A.String(),
			c.B.String(),
			c.Protocol,
			strconv.Itoa(c.Frames),
			humanize.Bytes(c.Bytes),
			handoffs(c.Handoffs),
		})
	}
	table.Render()
}

func handoffs(counts map[string]int) string {
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)
	for i, name := range names {
		names[i] = fmt.Sprintf("%s=%d", name, counts[name])
	}
	return strings.Join(names, ", ")
}
