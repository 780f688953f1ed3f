package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `loom emulates the registration side of Amazon Simple Workflow (SWF).

Model:
- Region: every call is scoped to one region. Nothing is shared across regions.
- Domain: a namespace, REGISTERED or DEPRECATED, with an execution retention period.
- Activity type / workflow type: a (name, version) pair registered in a domain with default
  task settings. A pair can be registered once; deprecation keeps it visible under DEPRECATED.

Typical flow:
1) register_domain, then register_activity_type / register_workflow_type.
2) list_* and describe_* to inspect. Lists default to REGISTERED; pass status=DEPRECATED for the rest.
3) deprecate_* / undeprecate_* to move between statuses.
4) get_recent_activity shows what changed recently.

Errors use the SWF fault names (UnknownResourceFault, TypeAlreadyExistsFault, ...).

Docs: loom://docs/index
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "loom://docs/index",
		Name:        "docs_index",
		Title:       "loom docs",
		Description: "Registry concepts, status rules and fault names.",
		Content: `# loom

## Registration rules

- Domain names are unique per region. Registering an existing name fails with
  DomainAlreadyExistsFault, whatever its status.
- Retention is NONE or a whole number of days from 0 to 90.
- Activity and workflow types are keyed by (domain, name, version). Registering an
  existing pair fails with TypeAlreadyExistsFault, even when it is deprecated.
- Timeouts are NONE or a non-negative number of seconds, passed as strings.

## Status transitions

| From       | Call          | Result                     |
|------------|---------------|----------------------------|
| REGISTERED | deprecate     | DEPRECATED                 |
| DEPRECATED | deprecate     | TypeDeprecatedFault / DomainDeprecatedFault |
| DEPRECATED | undeprecate   | REGISTERED                 |
| REGISTERED | undeprecate   | TypeAlreadyExistsFault / DomainAlreadyExistsFault |

## Listing

- Results are ordered by name (then version) ascending; reverse_order flips it.
- page_size limits a page; pass next_page_token back to continue.

## Faults

| Fault                     | Meaning                                  |
|---------------------------|------------------------------------------|
| UnknownResourceFault      | domain or type does not exist in region  |
| TypeAlreadyExistsFault    | pair already registered                  |
| TypeDeprecatedFault       | type already deprecated                  |
| DomainAlreadyExistsFault  | domain already registered                |
| DomainDeprecatedFault     | domain already deprecated                |
| ValidationException       | a member failed validation               |
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
