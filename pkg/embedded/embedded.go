package embedded

import (
	_ "embed"
)

// Embed prompt data files
//
//go:embed data/instructions/prompt_architect.md
var PromptArchitectInstructionsMd []byte
