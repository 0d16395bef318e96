package cmd

import (
	"github.com/turbulenz/typescript/depm"
	"github.com/turbulenz/typescript/report"
)

// BatchCompiler is the back end used by the command line.  It collects the
// resolved units in compilation order for the later compiler phases.
//
// TODO: hand the collected unit list to the checker and emitter once their
// ports land; until then a batch compilation succeeds whenever resolution
// produced no errors.
type BatchCompiler struct {
	units []*depm.SourceUnit
}

// NewBatchCompiler creates a new batch compiler.
func NewBatchCompiler() *BatchCompiler {
	return &BatchCompiler{}
}

func (bc *BatchCompiler) AddUnit(unit *depm.SourceUnit) {
	bc.units = append(bc.units, unit)
}

func (bc *BatchCompiler) TypeCheck() bool {
	return report.ShouldProceed()
}

func (bc *BatchCompiler) Emit() error {
	return nil
}
