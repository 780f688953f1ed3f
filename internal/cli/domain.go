package cli

import (
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/swf"
	"github.com/urfave/cli/v2"
)

const flagRetention = "retention"

func domainCommand() *cli.Command {
	return &cli.Command{
		Name:    "domain",
		Aliases: []string{"d"},
		Usage:   "register, inspect and deprecate domains",
		Subcommands: []*cli.Command{
			{
				Name:  "register",
				Usage: "register a new domain",
				Flags: []cli.Flag{
					requiredStringFlag(flagName, "domain name"),
					&cli.StringFlag{Name: flagRetention, Value: "NONE", Usage: "execution retention in days (0-90) or NONE"},
					&cli.StringFlag{Name: flagDescription},
				},
				Action: registerDomain,
			},
			{
				Name:   "describe",
				Usage:  "show a domain",
				Flags:  []cli.Flag{requiredStringFlag(flagName, "domain name")},
				Action: describeDomain,
			},
			{
				Name:   "list",
				Usage:  "list domains",
				Flags:  listFlags(),
				Action: listDomains,
			},
			{
				Name:   "deprecate",
				Usage:  "deprecate a domain",
				Flags:  []cli.Flag{requiredStringFlag(flagName, "domain name")},
				Action: deprecateDomain,
			},
			{
				Name:   "undeprecate",
				Usage:  "restore a deprecated domain",
				Flags:  []cli.Flag{requiredStringFlag(flagName, "domain name")},
				Action: undeprecateDomain,
			},
		},
	}
}

func registerDomain(c *cli.Context) error {
	client, err := newClient(c)
	if err != nil {
		return err
	}
	input := &swf.RegisterDomainInput{
		Name:                                   aws.String(c.String(flagName)),
		WorkflowExecutionRetentionPeriodInDays: aws.String(c.String(flagRetention)),
	}
	if d := c.String(flagDescription); d != "" {
		input.Description = aws.String(d)
	}
	if _, err := client.RegisterDomainWithContext(c.Context, input); err != nil {
		return err
	}
	printDone(c, "domain %s registered", c.String(flagName))
	return nil
}

func describeDomain(c *cli.Context) error {
	client, err := newClient(c)
	if err != nil {
		return err
	}
	out, err := client.DescribeDomainWithContext(c.Context, &swf.DescribeDomainInput{Name: aws.String(c.String(flagName))})
	if err != nil {
		return err
	}
	renderFields(c.App.Writer, [][2]string{
		{"Name", aws.StringValue(out.DomainInfo.Name)},
		{"Status", aws.StringValue(out.DomainInfo.Status)},
		{"Description", aws.StringValue(out.DomainInfo.Description)},
		{"Retention", aws.StringValue(out.Configuration.WorkflowExecutionRetentionPeriodInDays)},
		{"ARN", aws.StringValue(out.DomainInfo.Arn)},
	})
	return nil
}

func listDomains(c *cli.Context) error {
	client, err := newClient(c)
	if err != nil {
		return err
	}
	var rows [][]string
	err = client.ListDomainsPagesWithContext(c.Context, &swf.ListDomainsInput{
		RegistrationStatus: aws.String(status(c)),
		ReverseOrder:       aws.Bool(c.Bool(flagReverse)),
	}, func(page *swf.ListDomainsOutput, _ bool) bool {
		for _, d := range page.DomainInfos {
			rows = append(rows, []string{aws.StringValue(d.Name), aws.StringValue(d.Status), aws.StringValue(d.Description)})
		}
		return true
	})
	if err != nil {
		return err
	}
	renderTable(c.App.Writer, []string{"Name", "Status", "Description"}, rows)
	return nil
}

func deprecateDomain(c *cli.Context) error {
	client, err := newClient(c)
	if err != nil {
		return err
	}
	if _, err := client.DeprecateDomainWithContext(c.Context, &swf.DeprecateDomainInput{Name: aws.String(c.String(flagName))}); err != nil {
		return err
	}
	printDone(c, "domain %s deprecated", c.String(flagName))
	return nil
}

func undeprecateDomain(c *cli.Context) error {
	client, err := newClient(c)
	if err != nil {
		return err
	}
	if _, err := client.UndeprecateDomainWithContext(c.Context, &swf.UndeprecateDomainInput{Name: aws.String(c.String(flagName))}); err != nil {
		return err
	}
	printDone(c, "domain %s undeprecated", c.String(flagName))
	return nil
}
