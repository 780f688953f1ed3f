// Package cli implements loomctl, a command line client for the SWF
// registration API.
package cli

import (
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go/service/swf"
	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/rpggio/loom/internal/swfclient"
)

const (
	flagEndpoint  = "endpoint"
	flagRegion    = "region"
	flagAccessKey = "access-key"
	flagSecretKey = "secret-key"

	flagDomain      = "domain"
	flagName        = "name"
	flagVersion     = "version"
	flagDescription = "description"
	flagDeprecated  = "deprecated"
	flagReverse     = "reverse"
	flagTaskList    = "task-list"
	flagPriority    = "priority"
)

var (
	colorRed     = color.New(color.FgRed).SprintFunc()
	colorMagenta = color.New(color.FgMagenta).SprintFunc()
	colorGreen   = color.New(color.FgGreen).SprintFunc()
)

// NewApp builds the loomctl command tree.
func NewApp() *cli.App {
	return &cli.App{
		Name:  "loomctl",
		Usage: "manage domains, activity types and workflow types on an SWF endpoint",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagEndpoint,
				Aliases: []string{"e"},
				Value:   "http://localhost:8080",
				Usage:   "SWF endpoint URL",
				EnvVars: []string{"LOOM_ENDPOINT"},
			},
			&cli.StringFlag{
				Name:    flagRegion,
				Aliases: []string{"r"},
				Value:   swfclient.DefaultRegion,
				Usage:   "region to sign requests for",
				EnvVars: []string{"AWS_REGION", "AWS_DEFAULT_REGION"},
			},
			&cli.StringFlag{
				Name:    flagAccessKey,
				Value:   swfclient.DefaultAccessKey,
				EnvVars: []string{"AWS_ACCESS_KEY_ID"},
			},
			&cli.StringFlag{
				Name:    flagSecretKey,
				Value:   swfclient.DefaultSecretKey,
				EnvVars: []string{"AWS_SECRET_ACCESS_KEY"},
			},
		},
		Commands: []*cli.Command{
			domainCommand(),
			activityTypeCommand(),
			workflowTypeCommand(),
		},
	}
}

func newClient(c *cli.Context) (*swf.SWF, error) {
	return swfclient.New(swfclient.Config{
		Endpoint:  c.String(flagEndpoint),
		Region:    c.String(flagRegion),
		AccessKey: c.String(flagAccessKey),
		SecretKey: c.String(flagSecretKey),
	})
}

// PrintError writes err to w in the same layout for every command.
func PrintError(w io.Writer, msg string, err error) {
	if err == nil {
		fmt.Fprintf(w, "%s %s\n", colorRed("Error:"), msg)
		return
	}
	fmt.Fprintf(w, "%s %s\n%s %v\n", colorRed("Error:"), msg, colorMagenta("Error Details:"), err)
}

func printDone(c *cli.Context, format string, args ...any) {
	fmt.Fprintf(c.App.Writer, "%s %s\n", colorGreen("OK"), fmt.Sprintf(format, args...))
}

func status(c *cli.Context) string {
	if c.Bool(flagDeprecated) {
		return swf.RegistrationStatusDeprecated
	}
	return swf.RegistrationStatusRegistered
}

func requiredStringFlag(name, usage string) *cli.StringFlag {
	return &cli.StringFlag{Name: name, Usage: usage, Required: true}
}

func listFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{Name: flagDeprecated, Usage: "list DEPRECATED instead of REGISTERED"},
		&cli.BoolFlag{Name: flagReverse, Usage: "sort descending"},
	}
}
