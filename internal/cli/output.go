// # Naming Conventions
//
// Functions in this package follow consistent naming patterns based on their behavior:
//
//   - Display* functions write formatted output to an [io.Writer].
//     They handle presentation logic and colorization.
//     Examples: [DisplayResult], [DisplayQuietResult], [DisplayProgress].
//
//   - Encode* and Read* functions convert reports to and from bytes.
//     Examples: [EncodeReport], [ReadReport].
//
//   - Write* and Save* functions write data to files on the filesystem.
//     They handle file creation, directory setup, and error handling.
//     Examples: [WriteReport], [SaveReport].

package cli

import (
	"bufio"
	"bytes"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/agbru/rangesum/internal/config"
	"github.com/agbru/rangesum/internal/reducer"
	"github.com/agbru/rangesum/internal/ui"
)

// Report is the persisted record of one reduction.
type Report struct {
	XMLName     xml.Name        `json:"-" xml:"reduction"`
	RunID       string          `json:"run_id" xml:"run_id,attr"`
	Algorithm   string          `json:"algorithm" xml:"algorithm,attr"`
	GeneratedAt time.Time       `json:"generated_at" xml:"generated_at"`
	Start       int64           `json:"start" xml:"start"`
	End         int64           `json:"end" xml:"end"`
	Workers     int             `json:"workers" xml:"workers"`
	Sum         int64           `json:"sum" xml:"sum"`
	DurationNS  int64           `json:"duration_ns" xml:"duration_ns"`
	Partials    []ReportPartial `json:"partials" xml:"partials>partial"`
}

// ReportPartial is one worker's share of a Report.
type ReportPartial struct {
	Index int   `json:"index" xml:"index,attr"`
	Start int64 `json:"start" xml:"start,attr"`
	End   int64 `json:"end" xml:"end,attr"`
	Sum   int64 `json:"sum" xml:",chardata"`
}

// NewReport builds a report for res under a fresh run identifier.
func NewReport(res reducer.ReductionResult, algorithm string) Report {
	r := Report{
		RunID:       uuid.NewString(),
		Algorithm:   algorithm,
		GeneratedAt: time.Now().UTC().Truncate(time.Second),
		Start:       res.Interval.Start,
		End:         res.Interval.End,
		Workers:     res.WorkerCount,
		Sum:         res.Sum,
		DurationNS:  res.Duration.Nanoseconds(),
		Partials:    make([]ReportPartial, len(res.Partials)),
	}
	for i, p := range res.Partials {
		r.Partials[i] = ReportPartial{Index: p.Index, Start: p.Interval.Start, End: p.Interval.End, Sum: p.Sum}
	}
	return r
}

// EncodeReport writes r to w in the given format (text, json or xml).
func EncodeReport(w io.Writer, format string, r Report) error {
	switch format {
	case config.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case config.FormatXML:
		if _, err := io.WriteString(w, xml.Header); err != nil {
			return err
		}
		enc := xml.NewEncoder(w)
		enc.Indent("", "  ")
		if err := enc.Encode(r); err != nil {
			return err
		}
		_, err := io.WriteString(w, "\n")
		return err
	case config.FormatText, "":
		return encodeTextReport(w, r)
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}

func encodeTextReport(w io.Writer, r Report) error {
	var b strings.Builder
	fmt.Fprintf(&b, "# Range Reduction Report\n")
	fmt.Fprintf(&b, "run_id: %s\n", r.RunID)
	fmt.Fprintf(&b, "algorithm: %s\n", r.Algorithm)
	fmt.Fprintf(&b, "generated_at: %s\n", r.GeneratedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "start: %d\n", r.Start)
	fmt.Fprintf(&b, "end: %d\n", r.End)
	fmt.Fprintf(&b, "workers: %d\n", r.Workers)
	fmt.Fprintf(&b, "sum: %d\n", r.Sum)
	fmt.Fprintf(&b, "duration_ns: %d\n", r.DurationNS)
	for _, p := range r.Partials {
		fmt.Fprintf(&b, "partial: %d %d %d %d\n", p.Index, p.Start, p.End, p.Sum)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteReport writes r to path, creating parent directories as needed.
func WriteReport(path, format string, r Report) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := EncodeReport(file, format, r); err != nil {
		file.Close()
		return fmt.Errorf("failed to write report: %w", err)
	}
	return file.Close()
}

// OutputConfig holds configuration for report output.
type OutputConfig struct {
	// OutputFile is the report path (empty for no file output).
	OutputFile string
	// Format is text, json or xml.
	Format string
	// Quiet suppresses the confirmation message.
	Quiet bool
}

// SaveReport writes r according to cfg and confirms on out.
func SaveReport(out io.Writer, r Report, cfg OutputConfig) error {
	if cfg.OutputFile == "" {
		return nil
	}
	if err := WriteReport(cfg.OutputFile, cfg.Format, r); err != nil {
		return err
	}
	if !cfg.Quiet {
		fmt.Fprintf(out, "\n%s✓ Report saved to: %s%s%s\n",
			ui.ColorGreen(), ui.ColorCyan(), cfg.OutputFile, ui.ColorReset())
	}
	return nil
}

// ReadReport loads a report written by WriteReport. The format is detected
// from the content.
func ReadReport(path string) (Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Report{}, err
	}
	return DecodeReport(data)
}

// DecodeReport parses a report in any of the supported formats.
func DecodeReport(data []byte) (Report, error) {
	var r Report
	trimmed := bytes.TrimSpace(data)
	switch {
	case len(trimmed) == 0:
		return Report{}, errors.New("empty report")
	case trimmed[0] == '{':
		if err := json.Unmarshal(trimmed, &r); err != nil {
			return Report{}, fmt.Errorf("decoding json report: %w", err)
		}
	case trimmed[0] == '<':
		if err := xml.Unmarshal(trimmed, &r); err != nil {
			return Report{}, fmt.Errorf("decoding xml report: %w", err)
		}
		r.XMLName = xml.Name{}
	default:
		return decodeTextReport(trimmed)
	}
	return r, nil
}

func decodeTextReport(data []byte) (Report, error) {
	var r Report
	sc := bufio.NewScanner(bytes.NewReader(data))
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		key, value, ok := strings.Cut(text, ":")
		if !ok {
			return Report{}, fmt.Errorf("line %d: expected key: value", line)
		}
		if err := r.setTextField(key, strings.TrimSpace(value)); err != nil {
			return Report{}, fmt.Errorf("line %d: %w", line, err)
		}
	}
	return r, sc.Err()
}

func (r *Report) setTextField(key, value string) (err error) {
	switch key {
	case "run_id":
		r.RunID = value
	case "algorithm":
		r.Algorithm = value
	case "generated_at":
		r.GeneratedAt, err = time.Parse(time.RFC3339, value)
	case "start":
		r.Start, err = strconv.ParseInt(value, 10, 64)
	case "end":
		r.End, err = strconv.ParseInt(value, 10, 64)
	case "workers":
		r.Workers, err = strconv.Atoi(value)
	case "sum":
		r.Sum, err = strconv.ParseInt(value, 10, 64)
	case "duration_ns":
		r.DurationNS, err = strconv.ParseInt(value, 10, 64)
	case "partial":
		var p ReportPartial
		if _, err = fmt.Sscanf(value, "%d %d %d %d", &p.Index, &p.Start, &p.End, &p.Sum); err == nil {
			r.Partials = append(r.Partials, p)
		}
	default:
		err = fmt.Errorf("unknown key %q", key)
	}
	return err
}
