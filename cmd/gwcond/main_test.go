package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/duncanmmacleod/gwpy-laac/config"
	"github.com/duncanmmacleod/gwpy-laac/internal/testutil"
)

func execute(args ...string) (string, error) {
	cmd := newRootCmd()

	var out bytes.Buffer

	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return out.String(), err
}

func run(t *testing.T, args ...string) string {
	t.Helper()

	out, err := execute(append(args, "--log-level", "error")...)
	if err != nil {
		t.Fatalf("gwcond %s: %v", strings.Join(args, " "), err)
	}

	return out
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	return path
}

func writeSeries(t *testing.T, doc config.SeriesDocument) string {
	t.Helper()

	data, err := yaml.Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}

	return writeFile(t, "series.yaml", data)
}

func decode[T any](t *testing.T, out string) T {
	t.Helper()

	var v T
	if err := yaml.Unmarshal([]byte(out), &v); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}

	return v
}

const flagDoc = `
flags:
  - name: X1:A
    known: [[0, 40]]
    active: [[0, 10], [20, 30]]
  - name: X1:B
    known: [[0, 40]]
    active: [[5, 30]]
`

func TestWindows(t *testing.T) {
	list := run(t, "windows", "--list")
	for _, name := range []string{"Hann", "Kaiser", "Flat-top"} {
		if !strings.Contains(list, name+"\n") {
			t.Fatalf("list misses %s:\n%s", name, list)
		}
	}

	table := run(t, "windows", "hann", "kaiser", "--size", "64", "--alpha", "6")
	lines := strings.Split(strings.TrimSpace(table), "\n")

	if len(lines) != 4 {
		t.Fatalf("got %d lines:\n%s", len(lines), table)
	}

	if !strings.HasPrefix(lines[2], "Hann ") || !strings.HasPrefix(lines[3], "Kaiser (a=6.00)") {
		t.Fatalf("rows:\n%s", table)
	}

	if _, err := execute("windows", "sinc"); err == nil {
		t.Fatal("expected error for unknown window")
	}
}

func TestState(t *testing.T) {
	path := writeSeries(t, config.SeriesDocument{
		Channel:    "X1:GRD-LOCK_STATE_N",
		Epoch:      100,
		SampleRate: 1,
		Samples:    []float64{0, 500, 500, 0, 500, 7},
	})

	out := run(t, "state", path, "--define", "X1:LOCKED=== 500", "--define", "X1:BIT0=bit 0")
	doc := decode[config.FlagDocument](t, out)

	flags, err := doc.ToFlags()
	if err != nil {
		t.Fatal(err)
	}

	if len(flags) != 2 || flags[0].Name != "X1:LOCKED" || flags[1].Name != "X1:BIT0" {
		t.Fatalf("flags=%v", flags)
	}

	if got, want := flags[0].Active().String(), "{[101, 103) [104, 105)}"; got != want {
		t.Fatalf("locked=%s want %s", got, want)
	}

	if got, want := flags[1].Active().String(), "{[105, 106)}"; got != want {
		t.Fatalf("bit 0=%s want %s", got, want)
	}

	if got, want := flags[0].Known().String(), "{[100, 106)}"; got != want {
		t.Fatalf("known=%s want %s", got, want)
	}

	for _, bad := range []string{"X1:LOCKED", "=== 500", "X1:LOCKED=~ 3"} {
		if _, err := execute("state", path, "--define", bad); err == nil {
			t.Fatalf("--define %q: expected error", bad)
		}
	}
}

func TestSegments(t *testing.T) {
	path := writeFile(t, "flags.yaml", []byte(flagDoc))

	and := decode[segmentsOutput](t, run(t, "segments", path, "X1:A", "X1:B", "--name", "X1:BOTH"))

	f, err := and.Flags[0].ToFlag()
	if err != nil {
		t.Fatal(err)
	}

	if f.Name != "X1:BOTH" || f.Active().String() != "{[5, 10) [20, 30)}" {
		t.Fatalf("and=%v %v", f.Name, f.Active())
	}

	if and.Duration != 15 || and.Livetime != 0.375 {
		t.Fatalf("duration=%v livetime=%v", and.Duration, and.Livetime)
	}

	if and.Coincident != nil {
		t.Fatalf("coincident=%v without --coincide", and.Coincident)
	}

	inverted := decode[segmentsOutput](t, run(t, "segments", path, "X1:A", "--not", "--min-duration", "10"))
	if got := inverted.Flags[0].Active; !slices.EqualFunc(got, [][]float64{{10, 20}, {30, 40}}, slices.Equal) {
		t.Fatalf("inverted=%v", got)
	}

	either := decode[segmentsOutput](t, run(t, "segments", path, "--op", "or", "--contract", "1"))
	if got := either.Flags[0].Active; !slices.EqualFunc(got, [][]float64{{1, 29}}, slices.Equal) {
		t.Fatalf("or=%v", got)
	}

	if _, err := execute("segments", path, "--op", "xor"); err == nil {
		t.Fatal("expected error for unknown operator")
	}
}

func TestSegmentsCoincide(t *testing.T) {
	path := writeFile(t, "flags.yaml", []byte(`
flags:
  - name: X1:DC_READOUT
    known: [[0, 100]]
    active: [[10, 30], [50, 70]]
  - name: X1:LOCKLOSS
    known: [[0, 100]]
    active: [[30, 31], [40, 41], [70, 71]]
`))

	out := decode[segmentsOutput](t, run(t, "segments", path, "X1:DC_READOUT", "--coincide", "X1:LOCKLOSS"))
	if !slices.Equal(out.Coincident, []float64{30, 70}) {
		t.Fatalf("coincident=%v want [30 70]", out.Coincident)
	}

	// lock losses only end, never start, on a readout end
	out = decode[segmentsOutput](t, run(t, "segments", path, "X1:LOCKLOSS", "--coincide", "X1:DC_READOUT"))
	if len(out.Coincident) != 0 {
		t.Fatalf("reversed coincident=%v want none", out.Coincident)
	}

	late := writeFile(t, "late.yaml", []byte(`
flags:
  - name: X1:DC_READOUT
    active: [[10, 30]]
  - name: X1:LOCKLOSS
    active: [[30.5, 31]]
`))

	out = decode[segmentsOutput](t, run(t, "segments", late, "X1:DC_READOUT", "--coincide", "X1:LOCKLOSS", "--tol", "1"))
	if !slices.Equal(out.Coincident, []float64{30.5}) {
		t.Fatalf("tolerant coincident=%v want [30.5]", out.Coincident)
	}
}

func TestGate(t *testing.T) {
	flags := writeFile(t, "flags.yaml", []byte(flagDoc))
	triggers := writeFile(t, "triggers.yaml", []byte(`
triggers:
  - {time: 25, frequency: 100, snr: 20}
  - {time: 5, frequency: 50, snr: 10}
  - {time: 15, frequency: 70, snr: 40}
  - {time: 30, frequency: 90, snr: 30}
`))

	kept := decode[config.TriggerDocument](t, run(t, "gate", triggers, "--flags", flags, "--flag", "X1:A"))

	got := kept.ToTriggers()
	if len(got) != 2 || got[0].Time != 5 || got[1].Time != 25 {
		t.Fatalf("kept=%v", got)
	}

	loud := decode[config.TriggerDocument](t, run(t, "gate", triggers, "--flags", flags, "--flag", "X1:A", "--min-snr", "15"))
	if len(loud.Triggers) != 1 || loud.Triggers[0].Time != 25 {
		t.Fatalf("loud=%v", loud.Triggers)
	}

	vetoed := decode[config.TriggerDocument](t, run(t, "gate", triggers, "--flags", flags, "--flag", "X1:A", "--veto", "X1:B"))
	if len(vetoed.Triggers) != 0 {
		t.Fatalf("vetoed=%v", vetoed.Triggers)
	}
}

func noiseSeries(t *testing.T, channel string, rate float64, seconds int) string {
	t.Helper()

	return writeSeries(t, config.SeriesDocument{
		Channel:    channel,
		Epoch:      1000,
		SampleRate: rate,
		Samples:    testutil.GaussianNoise(5, 1, int(rate)*seconds),
	})
}

func TestASD(t *testing.T) {
	path := noiseSeries(t, "X1:STRAIN", 64, 64)

	out := run(t, "asd", path, "--fft-length", "4", "--overlap", "2", "--fmax", "8")
	lines := strings.Split(strings.TrimSpace(out), "\n")

	// header, rule and bins 0, 0.25, ..., 8
	if len(lines) != 2+33 {
		t.Fatalf("got %d lines", len(lines))
	}

	if !strings.HasPrefix(lines[0], "Frequency [Hz]") || !strings.HasPrefix(lines[3], "0.25 ") {
		t.Fatalf("table:\n%s", strings.Join(lines[:4], "\n"))
	}

	if _, err := execute("asd", path, "--window", "sinc"); err == nil {
		t.Fatal("expected error for unknown window")
	}
}

func TestASDConfigAndEnvironment(t *testing.T) {
	path := noiseSeries(t, "X1:STRAIN", 64, 64)
	cfg := writeFile(t, "gwcond.yaml", []byte("fft-length: 4\noverlap: 2\nlog-level: error\n"))

	lines := strings.Split(strings.TrimSpace(run(t, "asd", path, "--config", cfg)), "\n")
	if !strings.HasPrefix(lines[3], "0.25 ") {
		t.Fatalf("config file ignored:\n%s", strings.Join(lines[:4], "\n"))
	}

	t.Setenv("GWCOND_FFT_LENGTH", "2")
	t.Setenv("GWCOND_OVERLAP", "1")

	lines = strings.Split(strings.TrimSpace(run(t, "asd", path)), "\n")
	if !strings.HasPrefix(lines[3], "0.5 ") {
		t.Fatalf("environment ignored:\n%s", strings.Join(lines[:4], "\n"))
	}

	t.Setenv("GWCOND_LOG_LEVEL", "loud")

	if _, err := execute("asd", path); err == nil {
		t.Fatal("expected error for unknown log level")
	}
}

func TestSpectrogram(t *testing.T) {
	path := noiseSeries(t, "X1:STRAIN", 16, 200)
	flags := writeFile(t, "flags.yaml", []byte(`
flags:
  - name: X1:LOCKED
    known: [[1000, 1250]]
    active: [[1010, 1080], [1100, 1115], [1150, 1250]]
`))

	out := decode[spectrogramOutput](t, run(t, "spectrogram", path, "--flags", flags, "--flag", "X1:LOCKED", "--fmax", "4"))

	if out.Flag != "X1:LOCKED" || out.Coverage != 1 {
		t.Fatalf("flag=%q coverage=%v", out.Flag, out.Coverage)
	}

	if !slices.EqualFunc(out.Skipped, [][]float64{{1100, 1115}}, slices.Equal) {
		t.Fatalf("skipped=%v", out.Skipped)
	}

	if len(out.Spectrograms) != 2 {
		t.Fatalf("got %d spectrograms", len(out.Spectrograms))
	}

	first := out.Spectrograms[0]
	if !slices.Equal(first.Times, []float64{1010, 1040}) || len(first.Values) != 2 || len(first.Values[0]) != 33 {
		t.Fatalf("first spectrogram times=%v shape=%dx%d", first.Times, len(first.Values), len(first.Values[0]))
	}

	med := decode[spectrogramOutput](t, run(t, "spectrogram", path, "--flags", flags, "--flag", "X1:LOCKED", "--median"))
	if got := med.Spectrograms[0]; len(got.Times) != 1 || len(got.Values) != 1 || len(got.Values[0]) != 65 {
		t.Fatalf("median spectrogram times=%v", got.Times)
	}

	if _, err := execute("spectrogram", path, "--flags", flags, "--flag", "X1:NOPE"); err == nil {
		t.Fatal("expected error for unknown flag")
	}
}

func TestBLRMS(t *testing.T) {
	path := noiseSeries(t, "X1:ISI-GND_STS_X", 64, 256)

	docs := decode[[]config.SeriesDocument](t, run(t, "blrms", path, "--band", "1,3", "--band", "3, 10", "--bin", "32", "--fft-length", "4", "--overlap", "2"))

	if len(docs) != 2 {
		t.Fatalf("got %d trends", len(docs))
	}

	for i, want := range []string{"X1:ISI-GND_STS_X_BLRMS_1_3", "X1:ISI-GND_STS_X_BLRMS_3_10"} {
		if docs[i].Channel != want || docs[i].Dt != 32 || len(docs[i].Samples) != 8 || docs[i].Epoch != 1000 {
			t.Fatalf("trend %d: %s dt=%v n=%d", i, docs[i].Channel, docs[i].Dt, len(docs[i].Samples))
		}
	}

	if _, err := execute("blrms", path, "--band", "3"); err == nil {
		t.Fatal("expected error for malformed band")
	}
}

func TestStats(t *testing.T) {
	path := noiseSeries(t, "X1:STRAIN", 64, 64)
	flags := writeFile(t, "flags.yaml", []byte(`
flags:
  - name: X1:LOCKED
    known: [[1000, 1064]]
    active: [[1000, 1010], [1020, 1030]]
`))

	whole := decode[statsOutput](t, run(t, "stats", path))
	if whole.Channel != "X1:STRAIN" || whole.Time.Length != 64*64 || whole.Frequency != nil {
		t.Fatalf("whole series: %+v", whole)
	}

	gated := decode[statsOutput](t, run(t, "stats", path, "--flags", flags, "--flag", "X1:LOCKED", "--spectral", "--fft-length", "4", "--overlap", "2"))
	if gated.Flag != "X1:LOCKED" || gated.Time.Length != 2*640 {
		t.Fatalf("gated: flag=%q length=%d", gated.Flag, gated.Time.Length)
	}

	if gated.Frequency == nil || gated.Frequency.Bins != 129 {
		t.Fatalf("spectral stats missing: %+v", gated.Frequency)
	}

	if _, err := execute("stats", path, "--flag", "X1:LOCKED"); err == nil {
		t.Fatal("expected error for --flag without --flags")
	}
}
