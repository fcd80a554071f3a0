package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/shenwei356/bio/seqio/fastx"
	"github.com/shenwei356/xopen"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/fastx-tools/internal/dedup"
	"github.com/inodb/fastx-tools/internal/history"
	"github.com/inodb/fastx-tools/internal/metrics"
	"github.com/inodb/fastx-tools/internal/seqio"
	"github.com/inodb/fastx-tools/internal/vcf"
)

// Input formats.
const (
	formatFASTX = "fastx"
	formatVCF   = "vcf"
)

type dedupOptions struct {
	input       string
	output      string
	format      string
	hash        string
	key         string
	threads     int
	maxEntries  int
	sizeHint    int
	profile     bool
	history     bool
	historyDB   string
	metricsFile string
}

func newDedupCmd() *cobra.Command {
	var opts dedupOptions

	cmd := &cobra.Command{
		Use:     "dedup [flags] [input-file]",
		Aliases: []string{"derep", "rmdup"},
		Short:   "Remove replicate records, keeping the first occurrence",
		Long: `Remove replicate records from a FASTA, FASTQ or VCF file.

A record is a replicate when its payload (by default the sequence, or the
variant site for VCF) hashes to the same 64-bit fingerprint as an earlier
record. Surviving records are written in input order. Compressed input and
output are handled transparently.`,
		Example: `  fastx-tools dedup reads.fq.gz -o unique.fq.gz
  fastx-tools dedup --key id --hash xxh3 contigs.fa
  fastx-tools dedup --threads 0 --profile reads.fq > unique.fq
  fastx-tools dedup calls.vcf.gz --key site-nochr -o calls.dedup.vcf.gz
  zcat reads.fq.gz | fastx-tools dedup -`,
		Args: usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.input = "-"
			if len(args) == 1 {
				opts.input = args[0]
			}
			opts.hash = viper.GetString("dedup.hash")
			opts.key = viper.GetString("dedup.key")
			opts.threads = viper.GetInt("dedup.threads")
			opts.maxEntries = viper.GetInt("dedup.max_entries")
			opts.sizeHint = viper.GetInt("dedup.size_hint")
			opts.profile = viper.GetBool("dedup.profile")
			opts.history = viper.GetBool("history.enabled")
			opts.historyDB = viper.GetString("history.db")
			opts.metricsFile = viper.GetString("metrics.file")
			if opts.threads < 0 {
				return newUsageError(cmd, fmt.Errorf("--threads must be >= 0, got %d", opts.threads))
			}
			if opts.format != "" && opts.format != formatFASTX && opts.format != formatVCF {
				return newUsageError(cmd, fmt.Errorf("unknown input format %q (supported: %s, %s)", opts.format, formatFASTX, formatVCF))
			}
			return runDedup(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.output, "output", "o", "-", "Output file (default: stdout); compressed by suffix (.gz, .xz, .zst, .bz2)")
	flags.StringVar(&opts.format, "input-format", "", "Input format: fastx, vcf (auto-detected if not specified)")
	flags.String("hash", "xxh64", "Fingerprint hash: xxh64, xxh3")
	flags.String("key", "", "Payload to compare: seq, name, id (FASTA/FASTQ); site, site-nochr, line (VCF)")
	flags.IntP("threads", "j", 1, "Hashing workers; 0 uses all available CPUs")
	flags.Int("max-entries", 0, "Fail once this many distinct payloads are held (0: unlimited)")
	flags.Int("size-hint", 0, "Expected number of distinct payloads, to presize the index")
	flags.Bool("profile", false, "Report per-phase timings and peak memory")
	flags.Bool("history", false, "Record this run in the history database")
	flags.String("history-db", "", "History database path (default: ~/.fastx-tools/history.duckdb)")
	flags.String("metrics-file", "", "Write Prometheus metrics to this file when done")

	viper.BindPFlag("dedup.hash", flags.Lookup("hash"))
	viper.BindPFlag("dedup.key", flags.Lookup("key"))
	viper.BindPFlag("dedup.threads", flags.Lookup("threads"))
	viper.BindPFlag("dedup.max_entries", flags.Lookup("max-entries"))
	viper.BindPFlag("dedup.size_hint", flags.Lookup("size-hint"))
	viper.BindPFlag("dedup.profile", flags.Lookup("profile"))
	viper.BindPFlag("history.enabled", flags.Lookup("history"))
	viper.BindPFlag("metrics.file", flags.Lookup("metrics-file"))
	viper.BindPFlag("history.db", flags.Lookup("history-db"))

	return cmd
}

func runDedup(cmd *cobra.Command, opts dedupOptions) error {
	h, err := dedup.NewHasher(opts.hash)
	if err != nil {
		return newUsageError(cmd, err)
	}

	format := opts.format
	if format == "" {
		format = detectInputFormat(opts.input)
	}

	f := dedup.NewFilter(h, dedup.NewSetIndex(opts.sizeHint, opts.maxEntries))
	f.SetLogger(logger)
	f.SetProfile(opts.profile)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Debug("starting dedup",
		zap.String("input", opts.input),
		zap.String("format", format),
		zap.String("hash", h.Name()),
		zap.Int("threads", opts.threads))

	started := time.Now()
	var (
		stats dedup.Stats
		key   = opts.key
	)
	switch format {
	case formatVCF:
		if key == "" {
			key = vcf.KeySite
		}
		stats, err = dedupVCF(ctx, f, opts.input, opts.output, key, opts.threads)
	default:
		if key == "" {
			key = seqio.KeySeq
		}
		stats, err = dedupFASTX(ctx, f, opts.input, opts.output, key, opts.threads)
	}
	elapsed := time.Since(started)
	metrics.DedupRunDuration.Observe(elapsed.Seconds())

	if err == nil || stats.Read > 0 {
		writeSummary(cmd.ErrOrStderr(), stats, opts.profile)
	}
	logger.Info("dedup complete",
		zap.Uint64("read", stats.Read),
		zap.Uint64("written", stats.Written),
		zap.Uint64("removed", stats.Removed),
		zap.Int("distinct", f.Distinct()),
		zap.Duration("elapsed", elapsed),
		zap.String("state", f.State().String()))

	if opts.history {
		recordHistory(opts, format, h.Name(), key, started, elapsed, stats, err)
	}
	if opts.metricsFile != "" {
		if merr := metrics.WriteTextfile(opts.metricsFile); merr != nil {
			logger.Warn("could not write metrics file", zap.String("path", opts.metricsFile), zap.Error(merr))
		}
	}

	return err
}

// dedupFASTX filters a FASTA/FASTQ file. Output is flushed and closed even
// when the run fails, leaving a valid prefix of whole records.
func dedupFASTX(ctx context.Context, f *dedup.Filter, input, output, keyName string, threads int) (dedup.Stats, error) {
	key, err := seqio.KeyFunc(keyName)
	if err != nil {
		return dedup.Stats{}, err
	}

	r, err := seqio.Open(input)
	if err != nil {
		return dedup.Stats{}, err
	}
	defer r.Close()

	w, err := seqio.Create(output)
	if err != nil {
		return dedup.Stats{}, err
	}

	var stats dedup.Stats
	if threads == 1 {
		stats, err = dedup.Process[*fastx.Record](ctx, f, r, w, key)
	} else {
		r.SetClone(true)
		stats, err = dedup.ProcessParallel[*fastx.Record](ctx, f, r, w, key, threads)
	}
	if cerr := w.Close(); cerr != nil && err == nil {
		err = fmt.Errorf("close output: %w", cerr)
	}

	if r.IsFastq() && keyName == seqio.KeySeq {
		logger.Warn("quality strings are not compared; reads with equal sequence and different qualities count as replicates")
	}
	return stats, err
}

// dedupVCF filters the variant lines of a VCF file, copying its header.
func dedupVCF(ctx context.Context, f *dedup.Filter, input, output, keyName string, threads int) (dedup.Stats, error) {
	key, err := vcf.KeyFunc(keyName)
	if err != nil {
		return dedup.Stats{}, err
	}

	var p vcf.VariantParser
	p, err = vcf.NewParser(input)
	if err != nil {
		return dedup.Stats{}, err
	}
	defer p.Close()

	out, err := xopen.Wopen(output)
	if err != nil {
		return dedup.Stats{}, fmt.Errorf("create output file: %w", err)
	}
	w := vcf.NewWriter(out)
	if err := w.WriteHeader(p.Header()); err != nil {
		out.Close()
		return dedup.Stats{}, fmt.Errorf("write vcf header: %w", err)
	}

	var stats dedup.Stats
	if threads == 1 {
		stats, err = dedup.Process[*vcf.Variant](ctx, f, p, w, key)
	} else {
		stats, err = dedup.ProcessParallel[*vcf.Variant](ctx, f, p, w, key, threads)
	}
	if ferr := w.Flush(); ferr != nil && err == nil {
		err = fmt.Errorf("flush output: %w", ferr)
	}
	if cerr := out.Close(); cerr != nil && err == nil {
		err = fmt.Errorf("close output: %w", cerr)
	}
	return stats, err
}

// writeSummary prints the end-of-run counts and, when profiling, the phase
// timings and peak memory.
func writeSummary(w io.Writer, s dedup.Stats, profile bool) {
	fmt.Fprintf(w, "%d records read, %d written, %d removed\n", s.Read, s.Written, s.Removed)
	if !profile {
		return
	}
	fmt.Fprintf(w, "hash time: %s\n", s.HashTime)
	fmt.Fprintf(w, "lookup time: %s\n", s.LookupTime)
	fmt.Fprintf(w, "insert time: %s\n", s.InsertTime)
	if rss := maxRSSBytes(); rss > 0 {
		fmt.Fprintf(w, "max RSS: %.1f MiB\n", float64(rss)/(1<<20))
	}
}

func recordHistory(opts dedupOptions, format, hasher, key string, started time.Time, elapsed time.Duration, stats dedup.Stats, runErr error) {
	store, err := history.Open(opts.historyDB)
	if err != nil {
		logger.Warn("could not open history database", zap.String("path", opts.historyDB), zap.Error(err))
		return
	}
	defer store.Close()

	fp, err := history.StatFile(opts.input)
	if err != nil {
		fp = history.FileFingerprint{Path: opts.input}
	}
	if prior, err := store.RunsForInput(fp); err == nil && len(prior) > 0 && fp.Path != "-" {
		logger.Info("input was already deduplicated",
			zap.String("previous_run", prior[0].ID),
			zap.Time("at", prior[0].StartedAt))
	}

	run := history.Run{
		StartedAt: started,
		Input:     fp,
		Output:    opts.output,
		Format:    format,
		Hasher:    hasher,
		Key:       key,
		Read:      stats.Read,
		Written:   stats.Written,
		Removed:   stats.Removed,
		Duration:  elapsed,
		Status:    history.StatusDone,
	}
	switch {
	case runErr == nil:
	case errors.Is(runErr, context.Canceled):
		run.Status = history.StatusCancelled
		run.Error = runErr.Error()
	default:
		run.Status = history.StatusFailed
		run.Error = runErr.Error()
	}

	id, err := store.RecordRun(run)
	if err != nil {
		logger.Warn("could not record run", zap.Error(err))
		return
	}
	logger.Debug("recorded run", zap.String("id", id))
}

// detectInputFormat detects the input file format based on extension or content.
func detectInputFormat(path string) string {
	lowerPath := strings.ToLower(path)
	for _, ext := range []string{".gz", ".bgz", ".xz", ".zst", ".bz2"} {
		lowerPath = strings.TrimSuffix(lowerPath, ext)
	}
	if strings.HasSuffix(lowerPath, ".vcf") {
		return formatVCF
	}
	for _, ext := range []string{".fa", ".fasta", ".fna", ".fq", ".fastq"} {
		if strings.HasSuffix(lowerPath, ext) {
			return formatFASTX
		}
	}

	// Stdin, pipes and devices cannot be peeked without consuming them.
	if path == "-" {
		return formatFASTX
	}
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return formatFASTX
	}

	r, err := xopen.Ropen(path)
	if err != nil {
		return formatFASTX
	}
	defer r.Close()

	buf := make([]byte, 512)
	n, _ := io.ReadFull(r, buf)
	content := buf[:n]
	if bytes.HasPrefix(content, []byte("##fileformat=VCF")) || bytes.HasPrefix(content, []byte("#CHROM")) {
		return formatVCF
	}
	return formatFASTX
}
