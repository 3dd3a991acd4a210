package prompt

// Builder constructs prompts for the recognition model
type Builder struct{}

// NewBuilder creates a new prompt builder
func NewBuilder() *Builder {
	return &Builder{}
}

// BuildCoverPrompt returns the instruction sent alongside a cover image
func (b *Builder) BuildCoverPrompt() string {
	return CoverPrompt
}

// BuildAgentInstruction returns the system instruction for the ADK agent
func (b *Builder) BuildAgentInstruction() string {
	return AgentInstruction
}
