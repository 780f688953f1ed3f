package cli

import (
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/swf"
	"github.com/urfave/cli/v2"
)

const (
	flagHeartbeatTimeout       = "heartbeat-timeout"
	flagScheduleToCloseTimeout = "schedule-to-close-timeout"
	flagScheduleToStartTimeout = "schedule-to-start-timeout"
	flagStartToCloseTimeout    = "start-to-close-timeout"
	flagTaskStartToClose       = "task-start-to-close-timeout"
	flagExecutionStartToClose  = "execution-start-to-close-timeout"
	flagChildPolicy            = "child-policy"
	flagLambdaRole             = "lambda-role"
)

func typeFlags() []cli.Flag {
	return []cli.Flag{
		requiredStringFlag(flagDomain, "domain the type is registered in"),
		requiredStringFlag(flagName, "type name"),
		requiredStringFlag(flagVersion, "type version"),
	}
}

func typeListFlags() []cli.Flag {
	return append([]cli.Flag{
		requiredStringFlag(flagDomain, "domain to list"),
		&cli.StringFlag{Name: flagName, Usage: "only list versions of this name"},
	}, listFlags()...)
}

// optional returns nil for unset flags so they are omitted from the request.
func optional(c *cli.Context, name string) *string {
	if v := c.String(name); v != "" {
		return aws.String(v)
	}
	return nil
}

func optionalTaskList(c *cli.Context) *swf.TaskList {
	if v := c.String(flagTaskList); v != "" {
		return &swf.TaskList{Name: aws.String(v)}
	}
	return nil
}

func activityType(c *cli.Context) *swf.ActivityType {
	return &swf.ActivityType{Name: aws.String(c.String(flagName)), Version: aws.String(c.String(flagVersion))}
}

func workflowType(c *cli.Context) *swf.WorkflowType {
	return &swf.WorkflowType{Name: aws.String(c.String(flagName)), Version: aws.String(c.String(flagVersion))}
}

func typeLabel(c *cli.Context) string {
	return fmt.Sprintf("%s@%s in %s", c.String(flagName), c.String(flagVersion), c.String(flagDomain))
}

func activityTypeCommand() *cli.Command {
	return &cli.Command{
		Name:    "activity-type",
		Aliases: []string{"at"},
		Usage:   "register, inspect and deprecate activity types",
		Subcommands: []*cli.Command{
			{
				Name:  "register",
				Usage: "register an activity type version",
				Flags: append(typeFlags(),
					&cli.StringFlag{Name: flagDescription},
					&cli.StringFlag{Name: flagTaskList, Usage: "default task list"},
					&cli.StringFlag{Name: flagHeartbeatTimeout, Usage: "seconds or NONE"},
					&cli.StringFlag{Name: flagScheduleToCloseTimeout, Usage: "seconds or NONE"},
					&cli.StringFlag{Name: flagScheduleToStartTimeout, Usage: "seconds or NONE"},
					&cli.StringFlag{Name: flagStartToCloseTimeout, Usage: "seconds or NONE"},
					&cli.StringFlag{Name: flagPriority},
				),
				Action: registerActivityType,
			},
			{
				Name:   "list",
				Usage:  "list activity types in a domain",
				Flags:  typeListFlags(),
				Action: listActivityTypes,
			},
			{
				Name:   "describe",
				Usage:  "show an activity type and its defaults",
				Flags:  typeFlags(),
				Action: describeActivityType,
			},
			{
				Name:   "deprecate",
				Usage:  "deprecate an activity type version",
				Flags:  typeFlags(),
				Action: deprecateActivityType,
			},
			{
				Name:   "undeprecate",
				Usage:  "restore a deprecated activity type version",
				Flags:  typeFlags(),
				Action: undeprecateActivityType,
			},
		},
	}
}

func registerActivityType(c *cli.Context) error {
	client, err := newClient(c)
	if err != nil {
		return err
	}
	_, err = client.RegisterActivityTypeWithContext(c.Context, &swf.RegisterActivityTypeInput{
		Domain:                            aws.String(c.String(flagDomain)),
		Name:                              aws.String(c.String(flagName)),
		Version:                           aws.String(c.String(flagVersion)),
		Description:                       optional(c, flagDescription),
		DefaultTaskList:                   optionalTaskList(c),
		DefaultTaskHeartbeatTimeout:       optional(c, flagHeartbeatTimeout),
		DefaultTaskScheduleToCloseTimeout: optional(c, flagScheduleToCloseTimeout),
		DefaultTaskScheduleToStartTimeout: optional(c, flagScheduleToStartTimeout),
		DefaultTaskStartToCloseTimeout:    optional(c, flagStartToCloseTimeout),
		DefaultTaskPriority:               optional(c, flagPriority),
	})
	if err != nil {
		return err
	}
	printDone(c, "activity type %s registered", typeLabel(c))
	return nil
}

func listActivityTypes(c *cli.Context) error {
	client, err := newClient(c)
	if err != nil {
		return err
	}
	var rows [][]string
	err = client.ListActivityTypesPagesWithContext(c.Context, &swf.ListActivityTypesInput{
		Domain:             aws.String(c.String(flagDomain)),
		Name:               optional(c, flagName),
		RegistrationStatus: aws.String(status(c)),
		ReverseOrder:       aws.Bool(c.Bool(flagReverse)),
	}, func(page *swf.ListActivityTypesOutput, _ bool) bool {
		for _, info := range page.TypeInfos {
			rows = append(rows, []string{
				aws.StringValue(info.ActivityType.Name),
				aws.StringValue(info.ActivityType.Version),
				aws.StringValue(info.Status),
				formatDate(info.CreationDate),
			})
		}
		return true
	})
	if err != nil {
		return err
	}
	renderTable(c.App.Writer, []string{"Name", "Version", "Status", "Created"}, rows)
	return nil
}

func describeActivityType(c *cli.Context) error {
	client, err := newClient(c)
	if err != nil {
		return err
	}
	out, err := client.DescribeActivityTypeWithContext(c.Context, &swf.DescribeActivityTypeInput{
		Domain:       aws.String(c.String(flagDomain)),
		ActivityType: activityType(c),
	})
	if err != nil {
		return err
	}
	cfg := out.Configuration
	renderFields(c.App.Writer, [][2]string{
		{"Name", aws.StringValue(out.TypeInfo.ActivityType.Name)},
		{"Version", aws.StringValue(out.TypeInfo.ActivityType.Version)},
		{"Status", aws.StringValue(out.TypeInfo.Status)},
		{"Description", aws.StringValue(out.TypeInfo.Description)},
		{"Created", formatDate(out.TypeInfo.CreationDate)},
		{"Deprecated", formatDate(out.TypeInfo.DeprecationDate)},
		{"Task list", taskListName(cfg.DefaultTaskList)},
		{"Heartbeat timeout", aws.StringValue(cfg.DefaultTaskHeartbeatTimeout)},
		{"Schedule to close timeout", aws.StringValue(cfg.DefaultTaskScheduleToCloseTimeout)},
		{"Schedule to start timeout", aws.StringValue(cfg.DefaultTaskScheduleToStartTimeout)},
		{"Start to close timeout", aws.StringValue(cfg.DefaultTaskStartToCloseTimeout)},
		{"Priority", aws.StringValue(cfg.DefaultTaskPriority)},
	})
	return nil
}

func deprecateActivityType(c *cli.Context) error {
	client, err := newClient(c)
	if err != nil {
		return err
	}
	_, err = client.DeprecateActivityTypeWithContext(c.Context, &swf.DeprecateActivityTypeInput{
		Domain:       aws.String(c.String(flagDomain)),
		ActivityType: activityType(c),
	})
	if err != nil {
		return err
	}
	printDone(c, "activity type %s deprecated", typeLabel(c))
	return nil
}

func undeprecateActivityType(c *cli.Context) error {
	client, err := newClient(c)
	if err != nil {
		return err
	}
	_, err = client.UndeprecateActivityTypeWithContext(c.Context, &swf.UndeprecateActivityTypeInput{
		Domain:       aws.String(c.String(flagDomain)),
		ActivityType: activityType(c),
	})
	if err != nil {
		return err
	}
	printDone(c, "activity type %s undeprecated", typeLabel(c))
	return nil
}

func workflowTypeCommand() *cli.Command {
	return &cli.Command{
		Name:    "workflow-type",
		Aliases: []string{"wt"},
		Usage:   "register, inspect and deprecate workflow types",
		Subcommands: []*cli.Command{
			{
				Name:  "register",
				Usage: "register a workflow type version",
				Flags: append(typeFlags(),
					&cli.StringFlag{Name: flagDescription},
					&cli.StringFlag{Name: flagTaskList, Usage: "default decision task list"},
					&cli.StringFlag{Name: flagTaskStartToClose, Usage: "seconds or NONE"},
					&cli.StringFlag{Name: flagExecutionStartToClose, Usage: "seconds or NONE"},
					&cli.StringFlag{Name: flagChildPolicy, Usage: "TERMINATE, REQUEST_CANCEL or ABANDON"},
					&cli.StringFlag{Name: flagLambdaRole},
					&cli.StringFlag{Name: flagPriority},
				),
				Action: registerWorkflowType,
			},
			{
				Name:   "list",
				Usage:  "list workflow types in a domain",
				Flags:  typeListFlags(),
				Action: listWorkflowTypes,
			},
			{
				Name:   "describe",
				Usage:  "show a workflow type and its defaults",
				Flags:  typeFlags(),
				Action: describeWorkflowType,
			},
			{
				Name:   "deprecate",
				Usage:  "deprecate a workflow type version",
				Flags:  typeFlags(),
				Action: deprecateWorkflowType,
			},
			{
				Name:   "undeprecate",
				Usage:  "restore a deprecated workflow type version",
				Flags:  typeFlags(),
				Action: undeprecateWorkflowType,
			},
		},
	}
}

func registerWorkflowType(c *cli.Context) error {
	client, err := newClient(c)
	if err != nil {
		return err
	}
	_, err = client.RegisterWorkflowTypeWithContext(c.Context, &swf.RegisterWorkflowTypeInput{
		Domain:                              aws.String(c.String(flagDomain)),
		Name:                                aws.String(c.String(flagName)),
		Version:                             aws.String(c.String(flagVersion)),
		Description:                         optional(c, flagDescription),
		DefaultTaskList:                     optionalTaskList(c),
		DefaultTaskStartToCloseTimeout:      optional(c, flagTaskStartToClose),
		DefaultExecutionStartToCloseTimeout: optional(c, flagExecutionStartToClose),
		DefaultChildPolicy:                  optional(c, flagChildPolicy),
		DefaultLambdaRole:                   optional(c, flagLambdaRole),
		DefaultTaskPriority:                 optional(c, flagPriority),
	})
	if err != nil {
		return err
	}
	printDone(c, "workflow type %s registered", typeLabel(c))
	return nil
}

func listWorkflowTypes(c *cli.Context) error {
	client, err := newClient(c)
	if err != nil {
		return err
	}
	var rows [][]string
	err = client.ListWorkflowTypesPagesWithContext(c.Context, &swf.ListWorkflowTypesInput{
		Domain:             aws.String(c.String(flagDomain)),
		Name:               optional(c, flagName),
		RegistrationStatus: aws.String(status(c)),
		ReverseOrder:       aws.Bool(c.Bool(flagReverse)),
	}, func(page *swf.ListWorkflowTypesOutput, _ bool) bool {
		for _, info := range page.TypeInfos {
			rows = append(rows, []string{
				aws.StringValue(info.WorkflowType.Name),
				aws.StringValue(info.WorkflowType.Version),
				aws.StringValue(info.Status),
				formatDate(info.CreationDate),
			})
		}
		return true
	})
	if err != nil {
		return err
	}
	renderTable(c.App.Writer, []string{"Name", "Version", "Status", "Created"}, rows)
	return nil
}

func describeWorkflowType(c *cli.Context) error {
	client, err := newClient(c)
	if err != nil {
		return err
	}
	out, err := client.DescribeWorkflowTypeWithContext(c.Context, &swf.DescribeWorkflowTypeInput{
		Domain:       aws.String(c.String(flagDomain)),
		WorkflowType: workflowType(c),
	})
	if err != nil {
		return err
	}
	cfg := out.Configuration
	renderFields(c.App.Writer, [][2]string{
		{"Name", aws.StringValue(out.TypeInfo.WorkflowType.Name)},
		{"Version", aws.StringValue(out.TypeInfo.WorkflowType.Version)},
		{"Status", aws.StringValue(out.TypeInfo.Status)},
		{"Description", aws.StringValue(out.TypeInfo.Description)},
		{"Created", formatDate(out.TypeInfo.CreationDate)},
		{"Deprecated", formatDate(out.TypeInfo.DeprecationDate)},
		{"Task list", taskListName(cfg.DefaultTaskList)},
		{"Task start to close timeout", aws.StringValue(cfg.DefaultTaskStartToCloseTimeout)},
		{"Execution start to close timeout", aws.StringValue(cfg.DefaultExecutionStartToCloseTimeout)},
		{"Child policy", aws.StringValue(cfg.DefaultChildPolicy)},
		{"Lambda role", aws.StringValue(cfg.DefaultLambdaRole)},
		{"Priority", aws.StringValue(cfg.DefaultTaskPriority)},
	})
	return nil
}

func deprecateWorkflowType(c *cli.Context) error {
	client, err := newClient(c)
	if err != nil {
		return err
	}
	_, err = client.DeprecateWorkflowTypeWithContext(c.Context, &swf.DeprecateWorkflowTypeInput{
		Domain:       aws.String(c.String(flagDomain)),
		WorkflowType: workflowType(c),
	})
	if err != nil {
		return err
	}
	printDone(c, "workflow type %s deprecated", typeLabel(c))
	return nil
}

func undeprecateWorkflowType(c *cli.Context) error {
	client, err := newClient(c)
	if err != nil {
		return err
	}
	_, err = client.UndeprecateWorkflowTypeWithContext(c.Context, &swf.UndeprecateWorkflowTypeInput{
		Domain:       aws.String(c.String(flagDomain)),
		WorkflowType: workflowType(c),
	})
	if err != nil {
		return err
	}
	printDone(c, "workflow type %s undeprecated", typeLabel(c))
	return nil
}
