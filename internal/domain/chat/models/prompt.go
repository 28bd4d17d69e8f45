package models

// SystemPrompt represents the system-level instructions sent to a chat completions backend
type SystemPrompt struct {
	core string
}

// NewSystemPrompt creates a new SystemPrompt with core instructions
func NewSystemPrompt(core string) *SystemPrompt {
	return &SystemPrompt{core: core}
}

// String returns the formatted system prompt
func (sp *SystemPrompt) String() string {
	return sp.core
}

// DefaultSystemPrompt returns the default system prompt for PartSelect support
func DefaultSystemPrompt() *SystemPrompt {
	return NewSystemPrompt(`You are a helpful product support assistant for PartSelect.
Answer questions about refrigerator and dishwasher parts: installation, compatibility and troubleshooting.
Start the final answer with "Hi!" and use markdown lists for steps.
Please provide a helpful, accurate response based on the available information.`)
}
