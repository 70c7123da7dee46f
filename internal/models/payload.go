package models

// ActivityPayload is the Journey Builder configuration envelope that round
// trips between the host frame and the wizard UI, and is posted to the
// save/validate lifecycle endpoints. Invariant: InArguments holds exactly one
// element once the activity is configured.
type ActivityPayload struct {
	Arguments ActivityArguments `json:"arguments"`
	MetaData  ActivityMetaData  `json:"metaData"`
}

// ActivityArguments nests the execute-call configuration.
type ActivityArguments struct {
	Execute ExecuteArguments `json:"execute"`
}

// ExecuteArguments carries the inArguments field map list and the execute URL.
type ExecuteArguments struct {
	URL         string           `json:"url,omitempty"`
	InArguments []map[string]any `json:"inArguments"`
}

// ActivityMetaData carries the configured flag Journey Builder inspects.
type ActivityMetaData struct {
	IsConfigured bool `json:"isConfigured"`
}

// HasArguments reports whether the nested inArguments shape is present.
func (p ActivityPayload) HasArguments() bool {
	return len(p.Arguments.Execute.InArguments) > 0
}

// Flatten merges the inArguments fragment list into one field map, last
// write wins on key collision.
func (p ActivityPayload) Flatten() map[string]any {
	fields := map[string]any{}
	for _, frag := range p.Arguments.Execute.InArguments {
		for k, v := range frag {
			fields[k] = v
		}
	}
	return fields
}
