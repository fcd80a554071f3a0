package main

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/shenwei356/xopen"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/inodb/fastx-tools/internal/vcf"
)

func newVCFSearchCmd() *cobra.Command {
	var (
		outputFile string
		noHeader   bool
	)

	cmd := &cobra.Command{
		Use:   "vcf-search <chrom> <pos> [input-file]",
		Short: "Print the VCF calls at a chromosome and position",
		Long: `Print every call of a VCF file whose CHROM and POS match exactly.
The header is copied unless --no-header is given.`,
		Example: `  fastx-tools vcf-search chr12 25245351 calls.vcf.gz
  zcat calls.vcf.gz | fastx-tools vcf-search --no-header 1 1000`,
		Args: usageArgs(cobra.RangeArgs(2, 3)),
		RunE: func(cmd *cobra.Command, args []string) error {
			pos, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil || pos < 1 {
				return newUsageError(cmd, fmt.Errorf("invalid position: %s", args[1]))
			}
			return withVCF(inputArg(args[2:]), outputFile, !noHeader, func(p vcf.VariantParser, w *vcf.Writer) error {
				n, err := vcf.Search(p, w, args[0], pos)
				logger.Debug("searched VCF",
					zap.String("site", fmt.Sprintf("%s:%d", args[0], pos)),
					zap.Int("matches", n),
					zap.Int("lines", p.LineNumber()))
				return err
			})
		},
	}
	cmd.Flags().StringVarP(&outputFile, "output", "o", "-", "Output file (default: stdout)")
	cmd.Flags().BoolVar(&noHeader, "no-header", false, "Print matching calls only")
	return cmd
}

func newVCFDownsampleCmd() *cobra.Command {
	var (
		outputFile string
		seed       uint64
	)

	cmd := &cobra.Command{
		Use:   "vcf-downsample <count> [input-file]",
		Short: "Select a random subset of VCF sites",
		Long: `Select count sites of a VCF file uniformly at random, keeping the header
and the input order. Every site is kept when the file has fewer.`,
		Example: `  fastx-tools vcf-downsample 1000 calls.vcf.gz -o subset.vcf
  fastx-tools vcf-downsample --seed 7 500 < calls.vcf`,
		Args: usageArgs(cobra.RangeArgs(1, 2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			count, err := strconv.Atoi(args[0])
			if err != nil || count < 0 {
				return newUsageError(cmd, fmt.Errorf("invalid site count: %s", args[0]))
			}
			if !cmd.Flags().Changed("seed") {
				seed = uint64(time.Now().UnixNano())
			}
			rng := rand.New(rand.NewPCG(seed, seed))

			return withVCF(inputArg(args[1:]), outputFile, true, func(p vcf.VariantParser, w *vcf.Writer) error {
				kept, total, err := vcf.Downsample(p, w, count, rng)
				if err != nil {
					return err
				}
				logger.Info("downsampled VCF", zap.Int("kept", kept), zap.Int("sites", total), zap.Uint64("seed", seed))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&outputFile, "output", "o", "-", "Output file (default: stdout)")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Random seed (default: time-based)")
	return cmd
}

// withVCF opens input and outputFile, optionally copies the header, and
// runs fn. The output is flushed and closed on every path.
func withVCF(input, outputFile string, header bool, fn func(vcf.VariantParser, *vcf.Writer) error) error {
	p, err := vcf.NewParser(input)
	if err != nil {
		return err
	}
	defer p.Close()

	out, err := xopen.Wopen(outputFile)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	w := vcf.NewWriter(out)

	if header {
		err = w.WriteHeader(p.Header())
	}
	if err == nil {
		err = fn(p, w)
	}
	if ferr := w.Flush(); ferr != nil && err == nil {
		err = fmt.Errorf("flushing output: %w", ferr)
	}
	if cerr := out.Close(); cerr != nil && err == nil {
		err = fmt.Errorf("closing output: %w", cerr)
	}
	return err
}
