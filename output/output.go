package output

import (
	"bufio"
	"os"
	"sync"

	"capereport/config"
	"capereport/logger"
	"capereport/report"
	"capereport/verify"
)

// SchemaVersion tags every digest record so downstream consumers can
// detect layout changes.
const SchemaVersion = "1.0"

// Digest is the per-report summary record written after a decode
// attempt. It deliberately carries counts and identifying hashes, not
// the full object graph; consumers wanting the graph call the decoder
// themselves.
type Digest struct {
	SchemaVersion string `json:"schema_version"`
	Report        string `json:"report"`
	Status        string `json:"status"`
	Error         string `json:"error,omitempty"`

	Category     string   `json:"category,omitempty"`
	SHA256       string   `json:"sha256,omitempty"`
	Malscore     float64  `json:"malscore,omitempty"`
	MalfamilyTag string   `json:"malfamily_tag,omitempty"`
	Processes    int      `json:"processes,omitempty"`
	Calls        int      `json:"calls,omitempty"`
	Signatures   []string `json:"signatures,omitempty"`
	Payloads     int      `json:"payloads,omitempty"`
	Dropped      int      `json:"dropped,omitempty"`
	NetworkHosts int      `json:"network_hosts,omitempty"`
	SuricataDNS  int      `json:"suricata_dns,omitempty"`

	Verification []verify.Result `json:"verification,omitempty"`
}

// BuildDigest summarizes a successfully decoded report.
func BuildDigest(path string, r *report.Report) Digest {
	d := Digest{
		SchemaVersion: SchemaVersion,
		Report:        path,
		Status:        "ok",
		Category:      r.Target.Category,
		SHA256:        r.Target.File.SHA256,
		Malscore:      r.Malscore,
		Processes:     len(r.Behavior.Processes),
		Payloads:      len(r.CAPE.Payloads),
		Dropped:       len(r.Dropped),
		NetworkHosts:  len(r.Network.Hosts),
		SuricataDNS:   len(r.Suricata.DNS),
	}
	if r.MalfamilyTag != nil {
		d.MalfamilyTag = *r.MalfamilyTag
	}
	for _, p := range r.Behavior.Processes {
		d.Calls += len(p.Calls)
	}
	for _, sig := range r.Signatures {
		d.Signatures = append(d.Signatures, sig.Name)
	}
	return d
}

// FailureDigest records a decode failure for the digest stream.
func FailureDigest(path string, err error) Digest {
	return Digest{
		SchemaVersion: SchemaVersion,
		Report:        path,
		Status:        "error",
		Error:         err.Error(),
	}
}

// Writer emits digest records as a JSON array or as NDJSON lines, to
// a file or stdout, optionally mirroring each record to an OTLP logs
// endpoint.
type Writer struct {
	file   *os.File
	buf    *bufio.Writer
	mu     sync.Mutex
	first  bool
	format string
	otel   *otelLogger
}

func New(cfg *config.Config) (*Writer, error) {
	w := &Writer{first: true, format: cfg.OutputFormat}

	if cfg.OutputFileName == "" || cfg.OutputFileName == "-" {
		w.file = os.Stdout
	} else {
		f, err := os.OpenFile(cfg.OutputFileName, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return nil, err
		}
		w.file = f
	}
	w.buf = bufio.NewWriterSize(w.file, 64*1024)

	if otel, err := newOtelLogger(cfg); err != nil {
		logger.Warnf("OTEL export disabled: %v", err)
	} else {
		w.otel = otel
	}

	if w.format == "json" {
		if _, err := w.buf.WriteString("[\n"); err != nil {
			return nil, err
		}
	}
	return w, nil
}

// Write appends one digest record.
func (w *Writer) Write(d Digest) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	data, err := marshalJSON(d)
	if err != nil {
		return err
	}

	switch w.format {
	case "ndjson":
		if _, err := w.buf.Write(data); err != nil {
			return err
		}
		if err := w.buf.WriteByte('\n'); err != nil {
			return err
		}
	default:
		if !w.first {
			if _, err := w.buf.WriteString(",\n"); err != nil {
				return err
			}
		}
		indented, err := marshalJSONIndent(d, "  ", "  ")
		if err != nil {
			return err
		}
		if _, err := w.buf.WriteString("  "); err != nil {
			return err
		}
		if _, err := w.buf.Write(indented); err != nil {
			return err
		}
	}
	w.first = false

	w.otel.Emit(d)
	return nil
}

// Close flushes and finalizes the digest stream.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.format == "json" {
		if _, err := w.buf.WriteString("\n]\n"); err != nil {
			return err
		}
	}
	if err := w.buf.Flush(); err != nil {
		return err
	}
	w.otel.Shutdown()
	if w.file != os.Stdout {
		return w.file.Close()
	}
	return nil
}

// Path returns a printable name for the digest destination.
func (w *Writer) Path() string {
	if w.file == os.Stdout {
		return "stdout"
	}
	return w.file.Name()
}
