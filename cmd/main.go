package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/k0kubun/go-ansi"
	"github.com/schollz/progressbar/v3"

	"github.com/jaki95/setlist-sync/config"
	"github.com/jaki95/setlist-sync/internal/progress"
	"github.com/jaki95/setlist-sync/internal/resolver"
	"github.com/jaki95/setlist-sync/internal/service"
)

const usage = `Commands:
  list-legacy             list legacy songlists
  list-remote             list uploaded setlists
  preview-legacy NAME     decode a legacy songlist
  import-legacy NAME      import a legacy songlist into the library
  import-remote NAME      download and import an uploaded setlist
  upload SETLIST_ID       upload a local setlist
  delete-remote NAME      delete an uploaded setlist
`

func main() {
	configPath := flag.String("config", "./config/config.yaml", "Path to the configuration file")

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage of %s: [flags] command [arg]\n", os.Args[0])
		flag.PrintDefaults()
		fmt.Fprint(flag.CommandLine.Output(), usage)
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}
	command, arg := flag.Arg(0), flag.Arg(1)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.Level(cfg.LogLevel)})))

	svc, closeLibrary, err := service.NewFromConfig(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer closeLibrary()

	bar := newProgressBar(command)
	svc.UploadProgress().AddListener(bar.update)
	svc.DownloadProgress().AddListener(bar.update)

	if err := run(context.Background(), svc, command, arg); err != nil {
		fmt.Println()
		closeLibrary()
		log.Fatal(err)
	}
}

func run(ctx context.Context, svc *service.Service, command, arg string) error {
	if needsArg(command) && arg == "" {
		return fmt.Errorf("%s requires an argument", command)
	}

	switch command {
	case "list-legacy":
		names, err := svc.ListLegacyItems(ctx)
		if err != nil {
			return err
		}
		printNames(names)
	case "list-remote":
		names, err := svc.ListCurrentItems(ctx)
		if err != nil {
			return err
		}
		printNames(names)
	case "preview-legacy":
		setlist, err := svc.PreviewLegacyItem(ctx, arg)
		if err != nil {
			return err
		}
		fmt.Printf("\n%s (id %d)\n", setlist.Name, setlist.ID)
		for i, song := range setlist.Songs {
			fmt.Printf("%3d. %s  [%s]", i+1, song.Name, song.Path)
			if song.MIDICommands != "" {
				fmt.Printf("  midi %s", song.MIDICommands)
			}
			if song.HasFile() {
				fmt.Printf("  %d bytes", len(song.File))
			}
			fmt.Println()
		}
	case "import-legacy":
		item, err := svc.PreviewLegacyItem(ctx, arg)
		if err != nil {
			return err
		}
		setlist, report, err := svc.ImportLegacyItem(ctx, item)
		if err != nil {
			return err
		}
		printImport(setlist.Name, setlist.ID, report)
	case "import-remote":
		setlist, report, err := svc.DownloadAndImportCurrentItem(ctx, arg)
		if err != nil {
			return err
		}
		printImport(setlist.Name, setlist.ID, report)
	case "upload":
		if err := svc.UploadSetlistByID(ctx, arg); err != nil {
			return err
		}
		fmt.Printf("\nUploaded setlist %s\n", arg)
	case "delete-remote":
		if err := svc.DeleteCurrentItem(ctx, arg); err != nil {
			return err
		}
		fmt.Printf("\nDeleted %s\n", arg)
	default:
		return fmt.Errorf("unknown command %q", command)
	}
	return nil
}

func needsArg(command string) bool {
	switch command {
	case "list-legacy", "list-remote":
		return false
	}
	return true
}

func printNames(names []string) {
	fmt.Println()
	for _, name := range names {
		fmt.Println(name)
	}
}

func printImport(name, id string, report resolver.Report) {
	fmt.Printf("\nImported %q as %s\n", name, id)
	fmt.Printf("  exact %d, converted %d, imported %d, skipped %d, failed %d\n",
		report.Exact, report.Converted, report.Imported, report.Skipped, report.Failed)
}

type progressBar struct {
	bar *progressbar.ProgressBar
}

func newProgressBar(command string) *progressBar {
	return &progressBar{bar: progressbar.NewOptions(
		100,
		progressbar.OptionSetWriter(ansi.NewAnsiStdout()),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetTheme(progressbar.ThemeASCII),
		progressbar.OptionFullWidth(),
		progressbar.OptionSetDescription(fmt.Sprintf("[cyan]%s[reset]", command)),
	)}
}

func (p *progressBar) update(e progress.Event) {
	if e.Message != "" {
		p.bar.Describe(e.Message)
	}
	_ = p.bar.Set(int(e.Progress * 100))
}
