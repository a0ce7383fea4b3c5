package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/digibouquet/pkg/core/bouquet"
	"github.com/matzehuels/digibouquet/pkg/share"
)

// linkCommand groups the self-contained link tools.
func (c *CLI) linkCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "link",
		Short: "Encode and decode self-contained share links",
		Long: `Encode and decode self-contained share links.

A link token carries the whole bouquet, including the card, so it can be
viewed without any server-side storage.`,
	}

	cmd.AddCommand(c.linkEncodeCommand())
	cmd.AddCommand(c.linkDecodeCommand())

	return cmd
}

func (c *CLI) linkEncodeCommand() *cobra.Command {
	var (
		card cardFlags
		spec bouquetFlags
	)

	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Pack a bouquet into a share link",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := spec.spec(cmd, "")
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("seed") {
				s.Seed = bouquet.NewSeed()
			}
			svc := share.New(nil, nil, share.WithBaseURL(c.baseURL()), share.WithLogger(c.Logger))
			token, url, err := svc.EncodeLink(share.Draft{
				SenderName:   card.from,
				ReceiverName: card.to,
				Message:      card.message,
				Spec:         s,
			})
			if err != nil {
				return err
			}
			fmt.Println(url)
			c.Logger.Debug("encoded link", "token_length", len(token))
			return nil
		},
	}

	card.register(cmd)
	spec.register(cmd, 0)
	return cmd
}

func (c *CLI) linkDecodeCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "decode <token|url>",
		Short: "Show the bouquet inside a share link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc := share.New(nil, nil, share.WithBaseURL(c.baseURL()), share.WithLogger(c.Logger))

			b, err := svc.DecodeLink(ctx, tokenFromArg(args[0]))
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
	return cmd
}

// tokenFromArg accepts a bare token or a full share URL.
func tokenFromArg(arg string) string {
	arg = strings.TrimSpace(arg)
	if i := strings.LastIndex(arg, share.LinkPath); i >= 0 {
		arg = arg[i+len(share.LinkPath):]
	}
	if i := strings.IndexAny(arg, "?#"); i >= 0 {
		arg = arg[:i]
	}
	return strings.TrimSuffix(arg, "/")
}
