// Package cmd implements the yle-dl command-line interface.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/ElijahAhianyo/yle-dl/internal/backends"
	"github.com/ElijahAhianyo/yle-dl/internal/exitcode"
	"github.com/ElijahAhianyo/yle-dl/internal/extractor"
	"github.com/ElijahAhianyo/yle-dl/internal/filters"
	"github.com/ElijahAhianyo/yle-dl/internal/ioctx"
	"github.com/ElijahAhianyo/yle-dl/internal/log"
	"github.com/ElijahAhianyo/yle-dl/internal/media"
	"github.com/ElijahAhianyo/yle-dl/internal/orchestrator"
)

func init() {
	flags := rootCmd.Flags()

	flags.Int("maxheight", 0, "Maximum video height in pixels (0 = unlimited)")
	flags.Int("maxbitrate", 0, "Maximum bitrate in kbps (0 = unlimited)")
	flags.String("hardsubs", "", "Prefer a flavor with burned-in subtitles in this language")
	flags.String("sublang", "all", "Download subtitles in this language, \"all\" or \"none\"")
	flags.String("audiolang", "", "Preferred audio language for multi-language live channels")
	flags.StringSlice("backend", backends.DefaultOrder, "Downloader backends in priority order")

	flags.StringP("output", "o", "", "Save the stream to the named file")
	flags.String("destdir", "", "Save files to this directory")
	flags.Bool("resume", false, "Resume a partial download instead of starting over")
	flags.Bool("vfat", false, "Produce file names suitable for VFAT file systems")
	flags.String("postprocess", "", "Command to run for each downloaded file")
	flags.Int("duration", 0, "Record only the first DURATION seconds")
	flags.Int("ratelimit", 0, "Limit the download rate to this many kilobytes per second")

	flags.Bool("pipe", false, "Write the stream to stdout")
	flags.Bool("showurl", false, "Print the stream URL instead of downloading")
	flags.Bool("showtitle", false, "Print the stream title instead of downloading")
	flags.Bool("showepisodepage", false, "Print the episode page URL instead of downloading")
	flags.Bool("showmetadata", false, "Print stream metadata as JSON instead of downloading")
	flags.Bool("latestepisode", false, "Download only the latest episode of a series")

	flags.BoolP("verbose", "V", false, "Show verbose debug output")
	flags.BoolP("quiet", "q", false, "Show errors only")

	flags.VisitAll(func(f *pflag.Flag) {
		lo.Must0(viper.BindPFlag(f.Name, f))
	})

	viper.SetEnvPrefix("YLE_DL")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

var rootCmd = &cobra.Command{
	Use:           "yle-dl [flags] URL...",
	Short:         "Download media files from Yle Areena",
	Args:          cobra.MinimumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		log.Setup(viper.GetBool("verbose"), viper.GetBool("quiet"))
		os.Exit(int(run(cmd, args)))
	},
}

// Execute processes the CLI entry point.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(int(exitcode.Failed))
	}
}

func run(cmd *cobra.Command, urls []string) exitcode.Code {
	f := filters.New(
		viper.GetInt("maxheight"),
		viper.GetInt("maxbitrate"),
		viper.GetString("hardsubs"),
		viper.GetString("sublang"),
		viper.GetString("audiolang"),
		enabledBackends(viper.GetStringSlice("backend")),
	)

	excludeChars := ioctx.DefaultExcludeChars
	if viper.GetBool("vfat") {
		excludeChars = ioctx.VfatExcludeChars
	}
	io := ioctx.IOContext{
		DestDir:            viper.GetString("destdir"),
		OutputFilename:     viper.GetString("output"),
		ExcludeChars:       excludeChars,
		Resume:             viper.GetBool("resume"),
		PostprocessCommand: viper.GetString("postprocess"),
		Limits: ioctx.DownloadLimits{
			Duration:  viper.GetInt("duration"),
			RateLimit: viper.GetInt("ratelimit"),
		},
	}

	orch := orchestrator.New()
	overall := exitcode.Success
	for _, pageURL := range urls {
		res := processURL(cmd, pageURL, orch, io, f)
		if res != exitcode.Success && overall != exitcode.Failed {
			overall = res
		}
	}
	return overall
}

func processURL(cmd *cobra.Command, pageURL string, orch *orchestrator.Orchestrator, io ioctx.IOContext, f filters.StreamFilters) exitcode.Code {
	ex := extractor.New(pageURL, f)
	if ex == nil {
		log.Errorf("Unsupported URL %s", pageURL)
		return exitcode.Failed
	}

	ctx := cmd.Context()
	clips := extractor.Extract(ctx, ex, pageURL, viper.GetBool("latestepisode"))

	switch {
	case viper.GetBool("showurl"):
		return printLines(orch.URLs(clips, f))
	case viper.GetBool("showepisodepage"):
		return printLines(orch.EpisodePages(clips))
	case viper.GetBool("showtitle"):
		return printLines(orch.Titles(clips, io))
	case viper.GetBool("showmetadata"):
		return printMetadata(orch, clips)
	case viper.GetBool("pipe"):
		return orch.PipeClips(ctx, clips, io, f)
	default:
		return orch.DownloadClips(ctx, clips, io, f)
	}
}

func printLines(lines []string) exitcode.Code {
	if len(lines) == 0 {
		log.Error("No streams found")
		return exitcode.Failed
	}
	for _, line := range lines {
		fmt.Println(line)
	}
	return exitcode.Success
}

func printMetadata(orch *orchestrator.Orchestrator, clips []media.Clip) exitcode.Code {
	meta, err := orch.Metadata(clips)
	if err != nil {
		log.Errorf("failed to serialize metadata: %v", err)
		return exitcode.Failed
	}
	fmt.Println(string(meta))
	return exitcode.Success
}

// enabledBackends drops unknown backend names with a warning so a typo in
// --backend never silently disables everything else.
func enabledBackends(names []string) []string {
	valid := lo.Filter(names, func(name string, _ int) bool {
		if lo.Contains(backends.DefaultOrder, name) {
			return true
		}
		log.Warnf("Ignoring an unknown backend: %s", name)
		return false
	})
	if len(valid) == 0 {
		return backends.DefaultOrder
	}
	return valid
}
