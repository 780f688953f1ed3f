package transport

import (
	"fmt"
	"time"

	"github.com/rpggio/loom/internal/domain/activitytype"
	"github.com/rpggio/loom/internal/domain/registration"
	"github.com/rpggio/loom/internal/domain/swfdomain"
	"github.com/rpggio/loom/internal/domain/workflowtype"
)

// accountID is the fixed account used in domain ARNs.
const accountID = "123456789012"

type taskList struct {
	Name string `json:"name"`
}

func newTaskList(name string) *taskList {
	if name == "" {
		return nil
	}
	return &taskList{Name: name}
}

func (t *taskList) name() string {
	if t == nil {
		return ""
	}
	return t.Name
}

// epoch renders a time as fractional seconds since the Unix epoch.
func epoch(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

func optionalEpoch(t *time.Time) *float64 {
	if t == nil {
		return nil
	}
	v := epoch(*t)
	return &v
}

// Domains

type registerDomainInput struct {
	Name                                   string `json:"name"`
	Description                            string `json:"description"`
	WorkflowExecutionRetentionPeriodInDays string `json:"workflowExecutionRetentionPeriodInDays"`
}

type domainNameInput struct {
	Name string `json:"name"`
}

type listDomainsInput struct {
	RegistrationStatus string `json:"registrationStatus"`
	MaximumPageSize    int    `json:"maximumPageSize"`
	NextPageToken      string `json:"nextPageToken"`
	ReverseOrder       bool   `json:"reverseOrder"`
}

type domainInfo struct {
	Name        string `json:"name"`
	Status      string `json:"status"`
	Description string `json:"description,omitempty"`
	Arn         string `json:"arn"`
}

type domainConfiguration struct {
	WorkflowExecutionRetentionPeriodInDays string `json:"workflowExecutionRetentionPeriodInDays"`
}

type describeDomainOutput struct {
	DomainInfo    domainInfo          `json:"domainInfo"`
	Configuration domainConfiguration `json:"configuration"`
}

type listDomainsOutput struct {
	DomainInfos   []domainInfo `json:"domainInfos"`
	NextPageToken string       `json:"nextPageToken,omitempty"`
}

func toDomainInfo(d swfdomain.Domain) domainInfo {
	return domainInfo{
		Name:        d.Name,
		Status:      d.Status.String(),
		Description: d.Description,
		Arn:         fmt.Sprintf("arn:aws:swf:%s:%s:/domain/%s", d.Region, accountID, d.Name),
	}
}

// Shared type inputs

type listTypesInput struct {
	Domain             string `json:"domain"`
	Name               string `json:"name"`
	RegistrationStatus string `json:"registrationStatus"`
	MaximumPageSize    int    `json:"maximumPageSize"`
	NextPageToken      string `json:"nextPageToken"`
	ReverseOrder       bool   `json:"reverseOrder"`
}

// Activity types

type registerActivityTypeInput struct {
	Domain                            string    `json:"domain"`
	Name                              string    `json:"name"`
	Version                           string    `json:"version"`
	Description                       string    `json:"description"`
	DefaultTaskList                   *taskList `json:"defaultTaskList"`
	DefaultTaskHeartbeatTimeout       string    `json:"defaultTaskHeartbeatTimeout"`
	DefaultTaskScheduleToCloseTimeout string    `json:"defaultTaskScheduleToCloseTimeout"`
	DefaultTaskScheduleToStartTimeout string    `json:"defaultTaskScheduleToStartTimeout"`
	DefaultTaskStartToCloseTimeout    string    `json:"defaultTaskStartToCloseTimeout"`
	DefaultTaskPriority               string    `json:"defaultTaskPriority"`
}

func (in registerActivityTypeInput) request() activitytype.RegisterRequest {
	return activitytype.RegisterRequest{
		Domain:      in.Domain,
		Name:        in.Name,
		Version:     in.Version,
		Description: in.Description,
		Configuration: activitytype.Configuration{
			DefaultTaskList:                   in.DefaultTaskList.name(),
			DefaultTaskHeartbeatTimeout:       in.DefaultTaskHeartbeatTimeout,
			DefaultTaskScheduleToCloseTimeout: in.DefaultTaskScheduleToCloseTimeout,
			DefaultTaskScheduleToStartTimeout: in.DefaultTaskScheduleToStartTimeout,
			DefaultTaskStartToCloseTimeout:    in.DefaultTaskStartToCloseTimeout,
			DefaultTaskPriority:               in.DefaultTaskPriority,
		},
	}
}

type activityTypeInput struct {
	Domain       string               `json:"domain"`
	ActivityType registration.TypeRef `json:"activityType"`
}

type activityTypeInfo struct {
	ActivityType    registration.TypeRef `json:"activityType"`
	Status          string               `json:"status"`
	Description     string               `json:"description,omitempty"`
	CreationDate    float64              `json:"creationDate"`
	DeprecationDate *float64             `json:"deprecationDate,omitempty"`
}

type activityTypeConfiguration struct {
	DefaultTaskList                   *taskList `json:"defaultTaskList,omitempty"`
	DefaultTaskHeartbeatTimeout       string    `json:"defaultTaskHeartbeatTimeout,omitempty"`
	DefaultTaskScheduleToCloseTimeout string    `json:"defaultTaskScheduleToCloseTimeout,omitempty"`
	DefaultTaskScheduleToStartTimeout string    `json:"defaultTaskScheduleToStartTimeout,omitempty"`
	DefaultTaskStartToCloseTimeout    string    `json:"defaultTaskStartToCloseTimeout,omitempty"`
	DefaultTaskPriority               string    `json:"defaultTaskPriority,omitempty"`
}

type describeActivityTypeOutput struct {
	TypeInfo      activityTypeInfo          `json:"typeInfo"`
	Configuration activityTypeConfiguration `json:"configuration"`
}

type listActivityTypesOutput struct {
	TypeInfos     []activityTypeInfo `json:"typeInfos"`
	NextPageToken string             `json:"nextPageToken,omitempty"`
}

func toActivityTypeInfo(t activitytype.ActivityType) activityTypeInfo {
	return activityTypeInfo{
		ActivityType:    t.Ref(),
		Status:          t.Status.String(),
		Description:     t.Description,
		CreationDate:    epoch(t.CreatedAt),
		DeprecationDate: optionalEpoch(t.DeprecatedAt),
	}
}

func toActivityTypeConfiguration(c activitytype.Configuration) activityTypeConfiguration {
	return activityTypeConfiguration{
		DefaultTaskList:                   newTaskList(c.DefaultTaskList),
		DefaultTaskHeartbeatTimeout:       c.DefaultTaskHeartbeatTimeout,
		DefaultTaskScheduleToCloseTimeout: c.DefaultTaskScheduleToCloseTimeout,
		DefaultTaskScheduleToStartTimeout: c.DefaultTaskScheduleToStartTimeout,
		DefaultTaskStartToCloseTimeout:    c.DefaultTaskStartToCloseTimeout,
		DefaultTaskPriority:               c.DefaultTaskPriority,
	}
}

// Workflow types

type registerWorkflowTypeInput struct {
	Domain                              string    `json:"domain"`
	Name                                string    `json:"name"`
	Version                             string    `json:"version"`
	Description                         string    `json:"description"`
	DefaultTaskList                     *taskList `json:"defaultTaskList"`
	DefaultTaskStartToCloseTimeout      string    `json:"defaultTaskStartToCloseTimeout"`
	DefaultExecutionStartToCloseTimeout string    `json:"defaultExecutionStartToCloseTimeout"`
	DefaultChildPolicy                  string    `json:"defaultChildPolicy"`
	DefaultLambdaRole                   string    `json:"defaultLambdaRole"`
	DefaultTaskPriority                 string    `json:"defaultTaskPriority"`
}

func (in registerWorkflowTypeInput) request() workflowtype.RegisterRequest {
	return workflowtype.RegisterRequest{
		Domain:      in.Domain,
		Name:        in.Name,
		Version:     in.Version,
		Description: in.Description,
		Configuration: workflowtype.Configuration{
			DefaultTaskList:                     in.DefaultTaskList.name(),
			DefaultTaskStartToCloseTimeout:      in.DefaultTaskStartToCloseTimeout,
			DefaultExecutionStartToCloseTimeout: in.DefaultExecutionStartToCloseTimeout,
			DefaultChildPolicy:                  workflowtype.ChildPolicy(in.DefaultChildPolicy),
			DefaultLambdaRole:                   in.DefaultLambdaRole,
			DefaultTaskPriority:                 in.DefaultTaskPriority,
		},
	}
}

type workflowTypeInput struct {
	Domain       string               `json:"domain"`
	WorkflowType registration.TypeRef `json:"workflowType"`
}

type workflowTypeInfo struct {
	WorkflowType    registration.TypeRef `json:"workflowType"`
	Status          string               `json:"status"`
	Description     string               `json:"description,omitempty"`
	CreationDate    float64              `json:"creationDate"`
	DeprecationDate *float64             `json:"deprecationDate,omitempty"`
}

type workflowTypeConfiguration struct {
	DefaultTaskList                     *taskList `json:"defaultTaskList,omitempty"`
	DefaultTaskStartToCloseTimeout      string    `json:"defaultTaskStartToCloseTimeout,omitempty"`
	DefaultExecutionStartToCloseTimeout string    `json:"defaultExecutionStartToCloseTimeout,omitempty"`
	DefaultChildPolicy                  string    `json:"defaultChildPolicy,omitempty"`
	DefaultLambdaRole                   string    `json:"defaultLambdaRole,omitempty"`
	DefaultTaskPriority                 string    `json:"defaultTaskPriority,omitempty"`
}

type describeWorkflowTypeOutput struct {
	TypeInfo      workflowTypeInfo          `json:"typeInfo"`
	Configuration workflowTypeConfiguration `json:"configuration"`
}

type listWorkflowTypesOutput struct {
	TypeInfos     []workflowTypeInfo `json:"typeInfos"`
	NextPageToken string             `json:"nextPageToken,omitempty"`
}

func toWorkflowTypeInfo(t workflowtype.WorkflowType) workflowTypeInfo {
	return workflowTypeInfo{
		WorkflowType:    t.Ref(),
		Status:          t.Status.String(),
		Description:     t.Description,
		CreationDate:    epoch(t.CreatedAt),
		DeprecationDate: optionalEpoch(t.DeprecatedAt),
	}
}

func toWorkflowTypeConfiguration(c workflowtype.Configuration) workflowTypeConfiguration {
	return workflowTypeConfiguration{
		DefaultTaskList:                     newTaskList(c.DefaultTaskList),
		DefaultTaskStartToCloseTimeout:      c.DefaultTaskStartToCloseTimeout,
		DefaultExecutionStartToCloseTimeout: c.DefaultExecutionStartToCloseTimeout,
		DefaultChildPolicy:                  string(c.DefaultChildPolicy),
		DefaultLambdaRole:                   c.DefaultLambdaRole,
		DefaultTaskPriority:                 c.DefaultTaskPriority,
	}
}
