package casesparser

import (
	"github.com/medkg/tcmcases-api/casesparser/entities"
	"github.com/medkg/tcmcases-api/interfaces"
)

// Compile-time check to ensure CasesParser implements Parser interface
var _ interfaces.Parser = (*CasesParser)(nil)

// CasesParser implements the Parser interface over a fixed corpus path pair.
type CasesParser struct {
	corpusPath string
	outputPath string
}

// NewCasesParser creates a new CasesParser for the given input and output
// corpus paths.
func NewCasesParser(corpusPath, outputPath string) *CasesParser {
	return &CasesParser{
		corpusPath: corpusPath,
		outputPath: outputPath,
	}
}

// ParseAllCases implements the Parser interface.
func (p *CasesParser) ParseAllCases() ([]entities.ProcessedCase, map[string]entities.ProcessedCase, int, error) {
	return ParseAllCases(p.corpusPath, p.outputPath)
}
