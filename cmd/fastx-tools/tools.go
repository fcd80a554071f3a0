package main

import (
	"fmt"
	"io"

	"github.com/shenwei356/bio/seqio/fastx"
	"github.com/shenwei356/xopen"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/inodb/fastx-tools/internal/fxstats"
	"github.com/inodb/fastx-tools/internal/orf"
	"github.com/inodb/fastx-tools/internal/output"
	"github.com/inodb/fastx-tools/internal/seqio"
)

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats [input-file]...",
		Short: "Report length and base composition statistics",
		Long: `Report length and base composition statistics for each input file.
Standard input is read when no file is given.`,
		Example: `  fastx-tools stats reads.fq.gz
  fastx-tools stats *.fa
  zcat reads.fq.gz | fastx-tools stats`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"-"}
			}
			for _, path := range args {
				s, err := collectStats(path)
				if err != nil {
					return err
				}
				if err := output.WriteStats(cmd.OutOrStdout(), path, s); err != nil {
					return fmt.Errorf("writing report: %w", err)
				}
			}
			return nil
		},
	}
}

func collectStats(path string) (fxstats.Summary, error) {
	r, err := seqio.Open(path)
	if err != nil {
		return fxstats.Summary{}, err
	}
	defer r.Close()

	var acc fxstats.Accumulator
	for {
		rec, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fxstats.Summary{}, err
		}
		acc.Add(rec.Seq.Seq)
	}
	logger.Debug("computed statistics", zap.String("file", path), zap.Int("records", r.Count()))
	return acc.Summary(), nil
}

func newTSVCmd() *cobra.Command {
	var outputFile string

	cmd := &cobra.Command{
		Use:   "tsv [input-file]",
		Short: "Convert FASTA/FASTQ to one tab-separated line per record",
		Long: `Convert FASTA/FASTQ to one tab-separated line per record. FASTA records
become ">name<TAB>seq" and FASTQ records "@name<TAB>seq<TAB>+<TAB>qual".
Tabs inside record names are replaced with spaces.`,
		Args: usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return convertRecords(inputArg(args), outputFile, func(w io.Writer) (writeFunc, func() error) {
				tw := output.NewTSVWriter(w)
				return tw.Write, tw.Flush
			})
		},
	}
	cmd.Flags().StringVarP(&outputFile, "output", "o", "-", "Output file (default: stdout)")
	return cmd
}

func newChromLensCmd() *cobra.Command {
	var outputFile string

	cmd := &cobra.Command{
		Use:   "chrom-lens [input-file]",
		Short: "Print the name and length of each sequence",
		Long: `Print "name<TAB>length" for each sequence, using the first word of the
header as the name. The output is a chromosome length table as expected by
kallisto and similar tools.`,
		Example: `  fastx-tools chrom-lens GRCh38.fa.gz > GRCh38.chrom.sizes`,
		Args:    usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return convertRecords(inputArg(args), outputFile, func(w io.Writer) (writeFunc, func() error) {
				lw := output.NewLengthWriter(w)
				write := func(rec *fastx.Record, _ bool) error { return lw.Write(rec) }
				return write, lw.Flush
			})
		},
	}
	cmd.Flags().StringVarP(&outputFile, "output", "o", "-", "Output file (default: stdout)")
	return cmd
}

// writeFunc writes one record; fastq reports the input format.
type writeFunc func(rec *fastx.Record, fastq bool) error

// convertRecords streams every record of input through the writer built by
// newWriter.
func convertRecords(input, outputFile string, newWriter func(io.Writer) (writeFunc, func() error)) error {
	r, err := seqio.Open(input)
	if err != nil {
		return err
	}
	defer r.Close()

	out, err := xopen.Wopen(outputFile)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}

	write, flush := newWriter(out)
	for {
		var rec *fastx.Record
		rec, err = r.Next()
		if err == io.EOF {
			err = nil
			break
		}
		if err != nil {
			break
		}
		if err = write(rec, r.IsFastq()); err != nil {
			err = fmt.Errorf("writing output: %w", err)
			break
		}
	}
	if ferr := flush(); ferr != nil && err == nil {
		err = fmt.Errorf("flushing output: %w", ferr)
	}
	if cerr := out.Close(); cerr != nil && err == nil {
		err = fmt.Errorf("closing output: %w", cerr)
	}
	return err
}

func newConcatCmd() *cobra.Command {
	var outputFile string

	cmd := &cobra.Command{
		Use:     "concat [input-file]",
		Aliases: []string{"fasta2seq"},
		Short:   "Join all sequences into one continuous sequence",
		Long: `Write the sequences of all records back to back as a single line, without
headers, followed by a newline.`,
		Args: usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			var cw *output.ConcatWriter
			err := convertRecords(inputArg(args), outputFile, func(w io.Writer) (writeFunc, func() error) {
				cw = output.NewConcatWriter(w)
				write := func(rec *fastx.Record, _ bool) error { return cw.Write(rec.Seq.Seq) }
				return write, cw.Finish
			})
			if cw != nil {
				logger.Debug("concatenated sequences", zap.Int("bases", cw.Bases()))
			}
			return err
		},
	}
	cmd.Flags().StringVarP(&outputFile, "output", "o", "-", "Output file (default: stdout)")
	return cmd
}

func newFindORFsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "find-orfs [input-file]",
		Short: "Locate the first open reading frame of each sequence",
		Long: `Report, for each sequence, the first AUG start codon and the first stop
codon (UAA, UAG, UGA) in frame with it. DNA input is read as RNA.
Positions are 1-based; the offset in parentheses counts the bases skipped
before the codon.`,
		Example: `  fastx-tools find-orfs transcripts.fa`,
		Args:    usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := seqio.Open(inputArg(args))
			if err != nil {
				return err
			}
			defer r.Close()

			out := cmd.OutOrStdout()
			for {
				rec, err := r.Next()
				if err == io.EOF {
					return nil
				}
				if err != nil {
					return err
				}
				if err := output.WriteFrame(out, string(rec.ID), orf.First(rec.Seq.Seq)); err != nil {
					return fmt.Errorf("writing report: %w", err)
				}
			}
		},
	}
}

func newDiffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff <file1> <file2>",
		Short: "Compare the sequences of two files record by record",
		Long: `Walk two FASTA/FASTQ files in lockstep and print each pair of sequences
that differ as "- seq1" and "+ seq2". Comparison stops at the end of the
shorter file.`,
		Args: usageArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return diffFiles(cmd.OutOrStdout(), args[0], args[1])
		},
	}
}

func diffFiles(w io.Writer, path1, path2 string) error {
	r1, err := seqio.Open(path1)
	if err != nil {
		return err
	}
	defer r1.Close()
	r2, err := seqio.Open(path2)
	if err != nil {
		return err
	}
	defer r2.Close()

	dw := output.NewDiffWriter(w)
	for {
		a, err := r1.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			dw.Flush()
			return err
		}
		b, err := r2.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			dw.Flush()
			return err
		}
		if err := dw.Compare(a.Seq.Seq, b.Seq.Seq); err != nil {
			return fmt.Errorf("writing diff: %w", err)
		}
	}
	if err := dw.Flush(); err != nil {
		return fmt.Errorf("writing diff: %w", err)
	}

	logger.Debug("compared files",
		zap.Int("pairs", dw.Compared()),
		zap.Int("differences", dw.Differences()))
	return nil
}

func inputArg(args []string) string {
	if len(args) == 0 {
		return "-"
	}
	return args[0]
}
