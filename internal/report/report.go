// Package report renders snapshots into TXT, CSV and JSON report files.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"codeberg.org/mutker/droidscout/internal/classify"
	"codeberg.org/mutker/droidscout/internal/dump"
	"codeberg.org/mutker/droidscout/internal/errors"
	"codeberg.org/mutker/droidscout/internal/snapshot"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644

	maxListed   = 5
	maxServices = 10
)

// Writer renders one snapshot into report files, splitting entities into
// user and system groups with the given classifier.
type Writer struct {
	classifier *classify.Classifier
	target     string
}

func NewWriter(classifier *classify.Classifier, target string) *Writer {
	if classifier == nil {
		classifier = classify.New(nil)
	}

	return &Writer{classifier: classifier, target: target}
}

// RunDir creates a per-run output directory under base and returns its path.
func RunDir(base string, at time.Time) (string, error) {
	errFactory := errors.New()

	dir := filepath.Join(base, "run_"+at.Format("20060102_150405"))
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return "", errFactory.Wrap(errors.ErrWriteReport, err)
	}

	return dir, nil
}

// WriteAll writes the TXT, CSV and JSON reports for one snapshot into dir.
func (w *Writer) WriteAll(dir string, snap snapshot.Snapshot) error {
	if err := w.WriteTXT(filepath.Join(dir, "summary.txt"), snap); err != nil {
		return err
	}
	if err := w.WriteCSV(filepath.Join(dir, "report.csv"), snap); err != nil {
		return err
	}

	return WriteJSON(filepath.Join(dir, "report.json"), snap)
}

// WriteJSON writes the snapshot as indented JSON.
func WriteJSON(path string, snap snapshot.Snapshot) error {
	errFactory := errors.New()

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return errFactory.Wrap(errors.ErrWriteReport, err)
	}

	if err := os.WriteFile(path, data, filePerm); err != nil {
		return errFactory.Wrap(errors.ErrWriteReport, err)
	}

	return nil
}

// WriteSessionJSON exports a finished session as indented JSON.
func WriteSessionJSON(path string, snapshots []snapshot.Snapshot) error {
	errFactory := errors.New()

	data, err := json.MarshalIndent(snapshots, "", "  ")
	if err != nil {
		return errFactory.Wrap(errors.ErrSessionExport, err)
	}

	if err := os.WriteFile(path, data, filePerm); err != nil {
		return errFactory.Wrap(errors.ErrSessionExport, err)
	}

	return nil
}

// WriteCSV writes one row per process and memory entry.
func (w *Writer) WriteCSV(path string, snap snapshot.Snapshot) error {
	errFactory := errors.New()

	f, err := os.Create(path)
	if err != nil {
		return errFactory.Wrap(errors.ErrWriteReport, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write([]string{"Type", "Name", "PID", "CPU %", "MEM %", "RAM MB", "Heavy"}); err != nil {
		return errFactory.Wrap(errors.ErrWriteReport, err)
	}

	for _, p := range snap.Processes {
		record := []string{
			"CPU", p.Name, strconv.Itoa(p.PID),
			formatFloat(p.CPUPercent), formatFloat(p.MemPercent), "",
			strconv.FormatBool(classify.IsHeavyCPU(p)),
		}
		if err := cw.Write(record); err != nil {
			return errFactory.Wrap(errors.ErrWriteReport, err)
		}
	}

	for _, e := range snap.Memory {
		record := []string{
			"RAM", e.Name, strconv.Itoa(e.PID),
			"", "", formatFloat(e.RAMMb),
			strconv.FormatBool(classify.IsHeavyRAM(e)),
		}
		if err := cw.Write(record); err != nil {
			return errFactory.Wrap(errors.ErrWriteReport, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return errFactory.Wrap(errors.ErrWriteReport, err)
	}

	return nil
}

// WriteTXT writes the human-readable summary.
func (w *Writer) WriteTXT(path string, snap snapshot.Snapshot) error {
	errFactory := errors.New()

	var b strings.Builder
	b.WriteString("=== DEVICE DIAGNOSTIC REPORT ===\n\n")

	cpuUser, cpuSystem := w.classifier.SplitProcesses(snap.Processes)
	ramUser, ramSystem := w.classifier.SplitMemory(snap.Memory)

	writeProcessList(&b, "Top User CPU Processes:", cpuUser)
	writeProcessList(&b, "Top System CPU Processes:", cpuSystem)
	b.WriteString("\n")
	writeMemoryList(&b, "Top User RAM Apps:", ramUser)
	writeMemoryList(&b, "Top System RAM Apps:", ramSystem)

	b.WriteString("\nMemory Health: ")
	b.WriteString(strings.ToUpper(string(snap.MemoryHealth)))
	fmt.Fprintf(&b, " (free %.1f MB of %.0f MB, assumed capacity)\n", snap.FreeMemMb, snap.TotalMemMb)

	b.WriteString("\nThermal Sensors:\n")
	if len(snap.Thermal) == 0 {
		b.WriteString("  (No thermal data)\n")
	}
	for _, name := range sortedSensorNames(snap.Thermal) {
		value := snap.Thermal[name]
		warn := ""
		if sensorTooHot(name, value) {
			warn = " [HIGH]"
		}
		fmt.Fprintf(&b, "  %s: %.1f°C%s\n", name, value, warn)
	}

	if w.target != "" {
		fmt.Fprintf(&b, "\nFrame Rendering Stats for %s:\n", w.target)
		if snap.Frame != nil {
			fmt.Fprintf(&b, "  Avg Frame Time: %.2f ms\n", snap.Frame.AvgFrameTimeMs)
			fmt.Fprintf(&b, "  Janky Frames (>%.2fms): %d / %d\n",
				dump.JankThresholdMs, snap.Frame.JankFrameCount, snap.Frame.TotalFrameCount)
		} else {
			b.WriteString("  No frame data found.\n")
		}
	}

	b.WriteString("\nRunning Services (first 10):\n")
	for i, s := range snap.Services {
		if i >= maxServices {
			break
		}
		fmt.Fprintf(&b, "  %s\n", s)
	}

	fmt.Fprintf(&b, "\nHeavy CPU Processes (>=%.0f%%):\n", classify.HeavyCPUPercent)
	for _, p := range snap.HeavyCPU {
		fmt.Fprintf(&b, "  %s (PID %d): %.1f%% CPU\n", p.Name, p.PID, p.CPUPercent)
	}
	fmt.Fprintf(&b, "Heavy RAM Apps (>=%.0fMB):\n", classify.HeavyRAMMb)
	for _, e := range snap.HeavyRAM {
		fmt.Fprintf(&b, "  %s (PID %d): %.1f MB RAM\n", e.Name, e.PID, e.RAMMb)
	}

	w.writeAdvice(&b, snap)

	b.WriteString("\n=== END OF REPORT ===\n")

	if err := os.WriteFile(path, []byte(b.String()), filePerm); err != nil {
		return errFactory.Wrap(errors.ErrWriteReport, err)
	}

	return nil
}

func (w *Writer) writeAdvice(b *strings.Builder, snap snapshot.Snapshot) {
	b.WriteString("\n=== DIAGNOSTIC WARNINGS & SUGGESTIONS ===\n")

	for _, p := range snap.HeavyCPU {
		if w.classifier.IsSystemEntity(p.Name) {
			fmt.Fprintf(b, "Warning: System process %s is using high CPU (%.1f%%). This may indicate OS or hardware issues.\n",
				p.Name, p.CPUPercent)
		} else {
			fmt.Fprintf(b, "Suggestion: App %s is using a lot of CPU. Consider force-stopping or uninstalling if not needed.\n",
				p.Name)
		}
	}

	for _, e := range snap.HeavyRAM {
		if w.classifier.IsSystemEntity(e.Name) {
			fmt.Fprintf(b, "Warning: System process %s is using high RAM (%.1f MB).\n", e.Name, e.RAMMb)
		} else {
			fmt.Fprintf(b, "Suggestion: App %s is using a lot of RAM. Consider force-stopping or uninstalling if not needed.\n",
				e.Name)
		}
	}

	for _, name := range sortedSensorNames(snap.Thermal) {
		if sensorTooHot(name, snap.Thermal[name]) {
			fmt.Fprintf(b, "Warning: %s temperature is high (%.1f°C). Consider letting the device cool down.\n",
				name, snap.Thermal[name])
		}
	}
}

// Sensor-specific warning bands: the application processor runs hotter than
// the battery or the device skin before it is a concern.
func sensorTooHot(name string, value float64) bool {
	switch name {
	case "AP":
		return value > 50
	case "BAT":
		return value > 45
	case "SKIN":
		return value > 40
	default:
		return false
	}
}

func writeProcessList(b *strings.Builder, title string, samples []dump.ProcessSample) {
	fmt.Fprintf(b, "%s\n", title)
	for i, p := range samples {
		if i >= maxListed {
			break
		}
		mark := ""
		if classify.IsHeavyCPU(p) {
			mark = " *"
		}
		fmt.Fprintf(b, "  %s (PID %d): %.1f%% CPU, %.1f%% MEM%s\n", p.Name, p.PID, p.CPUPercent, p.MemPercent, mark)
	}
}

func writeMemoryList(b *strings.Builder, title string, entries []dump.MemoryEntry) {
	fmt.Fprintf(b, "%s\n", title)
	for i, e := range entries {
		if i >= maxListed {
			break
		}
		mark := ""
		if classify.IsHeavyRAM(e) {
			mark = " *"
		}
		fmt.Fprintf(b, "  %s (PID %d): %.1f MB RAM%s\n", e.Name, e.PID, e.RAMMb, mark)
	}
}

func sortedSensorNames(sensors map[string]float64) []string {
	names := make([]string, 0, len(sensors))
	for name := range sensors {
		names = append(names, name)
	}
	// Stable report output regardless of map order
	sort.Strings(names)

	return names
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
