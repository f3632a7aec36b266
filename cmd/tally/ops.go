package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tally/internal/calc"
	"tally/internal/logging"
)

// opVerbs maps operators to the noun used in console output,
// e.g. "Result of addition: 15".
var opVerbs = map[calc.Op]string{
	calc.OpAdd:      "addition",
	calc.OpSubtract: "subtraction",
	calc.OpMultiply: "multiplication",
	calc.OpDivide:   "division",
}

// newOpCommand builds one arithmetic subcommand.
func newOpCommand(use string, op calc.Op, verb string) *cobra.Command {
	return &cobra.Command{
		Use:   fmt.Sprintf("%s A B", use),
		Short: fmt.Sprintf("Perform %s on two numbers", verb),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOperation(cmd, op, args)
		},
	}
}

func runOperation(cmd *cobra.Command, op calc.Op, args []string) error {
	a, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("invalid number %q: %w", args[0], err)
	}
	b, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("invalid number %q: %w", args[1], err)
	}

	logging.CalcDebug("parsed operands a=%g b=%g", a, b)

	env, err := openEnvironment(string(op))
	if err != nil {
		return err
	}
	defer env.close()

	timer := logging.StartTimer(logging.CategoryCalc, string(op))
	result, err := env.calc.Calculate(op, a, b)
	timer.Stop()
	if err != nil {
		if errors.Is(err, calc.ErrDivisionByZero) {
			logger.Debug("division by zero rejected",
				zap.Float64("left", a), zap.Float64("right", b))
		}
		return err
	}

	logging.Calc("%s(%g, %g) = %g", op, a, b, result)

	return printResult(cmd, env, op, a, b, result)
}

// printResult renders one result in the configured output format.
func printResult(cmd *cobra.Command, env *environment, op calc.Op, a, b, result float64) error {
	if env.cfg.Output.Format == "json" {
		out := map[string]interface{}{
			"op":     string(op),
			"left":   a,
			"right":  b,
			"result": result,
		}
		data, err := json.Marshal(out)
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("Result of %s: %s\n", opVerbs[op], formatResult(env.cfg, result))
	return nil
}
