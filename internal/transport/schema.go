package transport

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

type jsonObject = map[string]any

func stringMember(maxLength int) jsonObject {
	return jsonObject{"type": "string", "maxLength": maxLength}
}

var (
	nameMember        = stringMember(256)
	descriptionMember = stringMember(1024)
	timeoutMember     = stringMember(8)
	statusMember      = jsonObject{"type": "string", "enum": []string{"REGISTERED", "DEPRECATED"}}
	taskListMember    = object([]string{"name"}, jsonObject{"name": nameMember})
	typeRefMember     = object([]string{"name", "version"}, jsonObject{
		"name":    nameMember,
		"version": stringMember(64),
	})
	pagingMembers = jsonObject{
		"maximumPageSize": jsonObject{"type": "integer", "minimum": 0, "maximum": 1000},
		"nextPageToken":   stringMember(2048),
		"reverseOrder":    jsonObject{"type": "boolean"},
	}
)

func object(required []string, properties jsonObject) jsonObject {
	o := jsonObject{"type": "object", "properties": properties}
	if len(required) > 0 {
		o["required"] = required
	}
	return o
}

func withPaging(properties jsonObject) jsonObject {
	for k, v := range pagingMembers {
		properties[k] = v
	}
	return properties
}

// actionSchemas describes the accepted members of every supported action.
func actionSchemas() map[string]jsonObject {
	domainName := object([]string{"name"}, jsonObject{"name": nameMember})
	activityType := object([]string{"domain", "activityType"}, jsonObject{
		"domain":       nameMember,
		"activityType": typeRefMember,
	})
	workflowType := object([]string{"domain", "workflowType"}, jsonObject{
		"domain":       nameMember,
		"workflowType": typeRefMember,
	})
	listTypes := func() jsonObject {
		return object([]string{"domain", "registrationStatus"}, withPaging(jsonObject{
			"domain":             nameMember,
			"name":               nameMember,
			"registrationStatus": statusMember,
		}))
	}

	return map[string]jsonObject{
		"RegisterDomain": object([]string{"name", "workflowExecutionRetentionPeriodInDays"}, jsonObject{
			"name":                                   nameMember,
			"description":                            descriptionMember,
			"workflowExecutionRetentionPeriodInDays": stringMember(8),
			"tags":                                   jsonObject{"type": "array"},
		}),
		"DescribeDomain":    domainName,
		"DeprecateDomain":   domainName,
		"UndeprecateDomain": domainName,
		"ListDomains": object([]string{"registrationStatus"}, withPaging(jsonObject{
			"registrationStatus": statusMember,
		})),
		"RegisterActivityType": object([]string{"domain", "name", "version"}, jsonObject{
			"domain":                            nameMember,
			"name":                              nameMember,
			"version":                           stringMember(64),
			"description":                       descriptionMember,
			"defaultTaskList":                   taskListMember,
			"defaultTaskHeartbeatTimeout":       timeoutMember,
			"defaultTaskScheduleToCloseTimeout": timeoutMember,
			"defaultTaskScheduleToStartTimeout": timeoutMember,
			"defaultTaskStartToCloseTimeout":    timeoutMember,
			"defaultTaskPriority":               stringMember(11),
		}),
		"ListActivityTypes":       listTypes(),
		"DescribeActivityType":    activityType,
		"DeprecateActivityType":   activityType,
		"UndeprecateActivityType": activityType,
		"RegisterWorkflowType": object([]string{"domain", "name", "version"}, jsonObject{
			"domain":                              nameMember,
			"name":                                nameMember,
			"version":                             stringMember(64),
			"description":                         descriptionMember,
			"defaultTaskList":                     taskListMember,
			"defaultTaskStartToCloseTimeout":      timeoutMember,
			"defaultExecutionStartToCloseTimeout": timeoutMember,
			"defaultChildPolicy":                  jsonObject{"type": "string", "enum": []string{"TERMINATE", "REQUEST_CANCEL", "ABANDON"}},
			"defaultLambdaRole":                   stringMember(1600),
			"defaultTaskPriority":                 stringMember(11),
		}),
		"ListWorkflowTypes":       listTypes(),
		"DescribeWorkflowType":    workflowType,
		"DeprecateWorkflowType":   workflowType,
		"UndeprecateWorkflowType": workflowType,
	}
}

// requestValidator checks request bodies against the action schemas.
type requestValidator struct {
	schemas map[string]*gojsonschema.Schema
}

func newRequestValidator() (*requestValidator, error) {
	v := &requestValidator{schemas: make(map[string]*gojsonschema.Schema)}
	for action, doc := range actionSchemas() {
		schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(doc))
		if err != nil {
			return nil, fmt.Errorf("compile schema for %s: %w", action, err)
		}
		v.schemas[action] = schema
	}
	return v, nil
}

func (v *requestValidator) supports(action string) bool {
	_, ok := v.schemas[action]
	return ok
}

// validate returns a SerializationException for malformed JSON or members of the
// wrong JSON type, and a ValidationException for any other schema violation.
func (v *requestValidator) validate(action string, body []byte) *Fault {
	schema, ok := v.schemas[action]
	if !ok {
		return unknownOperationFault(action)
	}
	if len(body) == 0 {
		body = []byte("{}")
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return serializationFault(fmt.Sprintf("request body is not valid JSON: %v", err))
	}
	if result.Valid() {
		return nil
	}

	errs := result.Errors()
	for _, e := range errs {
		if e.Type() == "invalid_type" {
			return serializationFault(fmt.Sprintf("value %v at '%s' can not be converted to %v",
				e.Value(), e.Field(), e.Details()["expected"]))
		}
	}
	first := errs[0]
	return validationFault(fmt.Sprintf("Value at '%s' failed to satisfy constraint: %s", first.Field(), first.Description()))
}
