package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/digibouquet/pkg/core/bouquet"
	"github.com/matzehuels/digibouquet/pkg/pipeline"
	"github.com/matzehuels/digibouquet/pkg/share"
)

// cardFlags are the card fields of a bouquet.
type cardFlags struct {
	from    string
	to      string
	message string
}

func (f *cardFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.from, "from", "", "sender name")
	cmd.Flags().StringVar(&f.to, "to", "", "receiver name")
	cmd.Flags().StringVarP(&f.message, "message", "m", "", "card message")
}

// composeCommand creates the compose command that authors and shares a bouquet.
func (c *CLI) composeCommand() *cobra.Command {
	var (
		card    cardFlags
		spec    bouquetFlags
		asLink  bool
		output  string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "compose",
		Short: "Compose a bouquet and get a link to share it",
		Long: `Compose a bouquet and get a link to share it.

Without --flowers an interactive picker opens. The bouquet is saved to the
configured store and a short share URL is printed. With --link nothing is
stored; the whole bouquet is packed into the URL instead.

A random seed is drawn unless --seed is given.`,
		Example: `  digibouquet compose --from Ana --to Ben -m "Happy birthday!"
  digibouquet compose --from Ana --to Ben -m "Congrats" --flowers roses=3,tulips=3 --link`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			s, err := c.pickSpec(ctx, cmd, &spec)
			if err != nil {
				return err
			}
			if s == nil {
				printInfo("Cancelled")
				return nil
			}
			draft := share.Draft{
				SenderName:   card.from,
				ReceiverName: card.to,
				Message:      card.message,
				Spec:         *s,
			}
			if asLink {
				return c.runComposeLink(ctx, draft, output)
			}
			return c.runCompose(ctx, draft, output, noCache)
		},
	}

	card.register(cmd)
	spec.register(cmd, 0)
	cmd.Flags().BoolVar(&asLink, "link", false, "encode the bouquet in the link instead of storing it")
	cmd.Flags().StringVarP(&output, "output", "o", "", "also write the card as SVG to this file")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// pickSpec returns the spec from flags, or runs the picker when no flowers
// were given. A nil spec means the user cancelled.
func (c *CLI) pickSpec(ctx context.Context, cmd *cobra.Command, f *bouquetFlags) (*bouquet.Spec, error) {
	seed := f.seed
	if !cmd.Flags().Changed("seed") {
		seed = bouquet.NewSeed()
	}
	g, err := bouquet.ParseGreenery(f.greenery)
	if err != nil {
		return nil, err
	}

	if f.flowers != "" {
		flowers, err := parseFlowers(f.flowers)
		if err != nil {
			return nil, err
		}
		s := bouquet.New(flowers, seed, g)
		return &s, nil
	}

	final, err := tea.NewProgram(NewPickerModel(nil, g), tea.WithContext(ctx)).Run()
	if err != nil {
		return nil, fmt.Errorf("flower picker: %w", err)
	}
	m, ok := final.(PickerModel)
	if !ok || !m.Done {
		return nil, nil
	}
	s := m.Spec(seed)
	return &s, nil
}

func (c *CLI) runCompose(ctx context.Context, draft share.Draft, output string, noCache bool) error {
	svc, closeFn, err := c.newService(ctx, noCache)
	if err != nil {
		return err
	}
	defer closeFn()

	spinner := newSpinnerWithContext(ctx, "Saving bouquet...")
	spinner.Start()
	b, err := svc.Compose(ctx, draft)
	if err != nil {
		spinner.StopWithError("Could not save bouquet")
		return err
	}
	spinner.Stop()

	printSuccess("Bouquet saved")
	return c.shareBouquet(ctx, svc, b, output)
}

func (c *CLI) runComposeLink(ctx context.Context, draft share.Draft, output string) error {
	svc := share.New(nil, nil, share.WithBaseURL(c.baseURL()), share.WithLogger(c.Logger))
	token, _, err := svc.EncodeLink(draft)
	if err != nil {
		return err
	}
	b, err := svc.DecodeLink(ctx, token)
	if err != nil {
		return err
	}

	printSuccess("Link ready")
	printWarning("Nothing was stored; keep the link to see this bouquet again.")
	return c.shareBouquet(ctx, svc, b, output)
}

// shareBouquet prints the card and share links of b and optionally writes
// its SVG.
func (c *CLI) shareBouquet(ctx context.Context, svc *share.Service, b *share.Bouquet, output string) error {
	printNewline()
	printCard(b)
	printNewline()
	printKeyValue("Share text", share.ShareText(b))
	printKeyValue("WhatsApp", StyleLink.Render(share.WhatsAppURL(b)))

	if output == "" {
		return nil
	}
	return c.writeCard(ctx, svc, b, output)
}

// writeCard renders b with its card as SVG to path.
func (c *CLI) writeCard(ctx context.Context, svc *share.Service, b *share.Bouquet, path string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	artifacts, err := svc.Render(ctx, b, pipeline.Options{
		Formats: []string{pipeline.FormatSVG},
		Style:   cfg.Render.Style,
		Logger:  c.Logger,
	})
	if err != nil {
		return err
	}
	if err := writeFile(path, artifacts[pipeline.FormatSVG]); err != nil {
		return err
	}
	printFile(path)
	return nil
}

// baseURL returns the configured share base URL, falling back to the
// built-in default when the config cannot be read.
func (c *CLI) baseURL() string {
	cfg, err := c.loadConfig()
	if err != nil {
		return share.DefaultBaseURL
	}
	return cfg.Server.BaseURL
}

// viewCommand shows a stored bouquet.
func (c *CLI) viewCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "view <id>",
		Short: "Show a stored bouquet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, closeFn, err := c.newService(ctx, noCache)
			if err != nil {
				return err
			}
			defer closeFn()

			b, err := svc.View(ctx, args[0])
			if err != nil {
				return err
			}
			printCard(b)
			if output == "" {
				return nil
			}
			printNewline()
			return c.writeCard(ctx, svc, b, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the card as SVG to this file")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	return cmd
}
