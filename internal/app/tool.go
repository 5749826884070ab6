package app

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/samvad-hq/billi-gallery/internal/ui"
)

// ErrUsage marks invalid command-line input.
var ErrUsage = errors.New("usage")

type toolCommand struct {
	summary string
	run     func(ctx context.Context, t *Tool, args []string) error
}

var toolCommands = map[string]toolCommand{
	"random":        {summary: "Fetch a page of random images", run: runRandom},
	"favourites":    {summary: "List favourites", run: runFavourites},
	"save":          {summary: "Save an image to favourites (-image)", run: runSave},
	"unfavourite":   {summary: "Remove a favourite by favourite id (-id)", run: runUnfavourite},
	"uploads":       {summary: "List uploaded images", run: runUploads},
	"upload":        {summary: "Upload an image file (-file)", run: runUpload},
	"delete-upload": {summary: "Delete an uploaded image (-id)", run: runDeleteUpload},
	"breeds":        {summary: "List breeds, or show one (-id)", run: runBreeds},
}

// Tool runs one remote operation per invocation and prints the result as JSON.
type Tool struct {
	api ui.API
	out io.Writer
}

// NewTool builds a Tool writing to out.
func NewTool(api ui.API, out io.Writer) *Tool {
	if out == nil {
		out = os.Stdout
	}
	return &Tool{api: api, out: out}
}

// Run dispatches args[0] as the subcommand.
func (t *Tool) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		t.Usage()
		return fmt.Errorf("%w: missing command", ErrUsage)
	}
	cmd, ok := toolCommands[args[0]]
	if !ok {
		t.Usage()
		return fmt.Errorf("%w: unknown command %q", ErrUsage, args[0])
	}
	if err := cmd.run(ctx, t, args[1:]); err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	return nil
}

// Usage prints the command list.
func (t *Tool) Usage() {
	names := make([]string, 0, len(toolCommands))
	for name := range toolCommands {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("catctl\n\nUsage:\n  catctl <command> [arguments]\n\nCommands:\n")
	for _, name := range names {
		fmt.Fprintf(&b, "  %-14s %s\n", name, toolCommands[name].summary)
	}
	b.WriteString("\nUse \"catctl <command> -help\" for more information about a command.\n")
	fmt.Fprint(t.out, b.String())
}

func (t *Tool) print(v any) error {
	enc := json.NewEncoder(t.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (t *Tool) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(t.out)
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return nil
}

func required(fs *flag.FlagSet, name, value string) error {
	if strings.TrimSpace(value) == "" {
		fs.PrintDefaults()
		return fmt.Errorf("%w: -%s is required", ErrUsage, name)
	}
	return nil
}

func runRandom(ctx context.Context, t *Tool, args []string) error {
	if err := parseFlags(t.flags("random"), args); err != nil {
		return err
	}
	images, err := t.api.RandomImages(ctx)
	if err != nil {
		return err
	}
	return t.print(images)
}

func runFavourites(ctx context.Context, t *Tool, args []string) error {
	if err := parseFlags(t.flags("favourites"), args); err != nil {
		return err
	}
	favs, err := t.api.Favourites(ctx)
	if err != nil {
		return err
	}
	return t.print(favs)
}

func runSave(ctx context.Context, t *Tool, args []string) error {
	fs := t.flags("save")
	imageID := fs.String("image", "", "image id to save")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := required(fs, "image", *imageID); err != nil {
		return err
	}
	created, err := t.api.SaveFavourite(ctx, *imageID)
	if err != nil {
		return err
	}
	return t.print(created)
}

func runUnfavourite(ctx context.Context, t *Tool, args []string) error {
	fs := t.flags("unfavourite")
	id := fs.String("id", "", "favourite id (not the image id)")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := required(fs, "id", *id); err != nil {
		return err
	}
	if err := t.api.DeleteFavourite(ctx, *id); err != nil {
		return err
	}
	return t.print(map[string]string{"deleted": *id})
}

func runUploads(ctx context.Context, t *Tool, args []string) error {
	if err := parseFlags(t.flags("uploads"), args); err != nil {
		return err
	}
	images, err := t.api.Uploads(ctx)
	if err != nil {
		return err
	}
	return t.print(images)
}

func runUpload(ctx context.Context, t *Tool, args []string) error {
	fs := t.flags("upload")
	path := fs.String("file", "", "image file to upload")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := required(fs, "file", *path); err != nil {
		return err
	}

	f, err := os.Open(*path)
	if err != nil {
		return fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	img, err := t.api.UploadImage(ctx, filepath.Base(*path), f)
	if err != nil {
		return err
	}
	return t.print(img)
}

func runDeleteUpload(ctx context.Context, t *Tool, args []string) error {
	fs := t.flags("delete-upload")
	id := fs.String("id", "", "uploaded image id")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := required(fs, "id", *id); err != nil {
		return err
	}
	if err := t.api.DeleteUpload(ctx, *id); err != nil {
		return err
	}
	return t.print(map[string]string{"deleted": *id})
}

func runBreeds(ctx context.Context, t *Tool, args []string) error {
	fs := t.flags("breeds")
	id := fs.String("id", "", "show a single breed")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	breeds, err := t.api.Breeds(ctx)
	if err != nil {
		return err
	}
	if *id == "" {
		return t.print(breeds)
	}
	for _, b := range breeds {
		if b.ID == *id {
			return t.print(b)
		}
	}
	return fmt.Errorf("breed %q not found", *id)
}
