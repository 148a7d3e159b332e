package main

import (
	"fmt"
	"os"

	"github.com/dexpeep/dexpeep/pkg/castremover"
	"github.com/dexpeep/dexpeep/pkg/catalog"
	"github.com/dexpeep/dexpeep/pkg/config"
	"github.com/dexpeep/dexpeep/pkg/ir"
	"github.com/dexpeep/dexpeep/pkg/peephole"
	"github.com/dexpeep/dexpeep/pkg/version"
	"github.com/spf13/cobra"
)

var (
	disableNames   []string
	configPath     string
	runCastRemoval bool
	trace          bool
	runDemo        bool
	showVersion    bool
)

var rootCmd = &cobra.Command{
	Use:   "dexpeep",
	Short: "dexpeep " + version.GetVersion() + " - a peephole optimizer for a register-based bytecode IR",
	Long: `dexpeep applies a catalog of local instruction-sequence rewrites
(StringBuilder chain coalescing, String.valueOf/length/equals constant
folding, redundant-move removal, trivial arithmetic identities) to a
method's basic blocks, one block at a time.

This binary has no bytecode reader of its own: class/method enumeration
and control-flow construction are external collaborators (see
pkg/peephole.MethodSource). --demo runs a bundled sample method so the
pass can be observed without one.`,
	Run: runRoot,
}

func init() {
	rootCmd.Flags().BoolVarP(&showVersion, "version", "v", false, "show version")
	rootCmd.Flags().StringArrayVar(&disableNames, "disable", nil, "disable a rule by name (repeatable)")
	rootCmd.Flags().StringVar(&configPath, "config", "", "path to a TOML config file")
	rootCmd.Flags().BoolVar(&runCastRemoval, "run-cast-removal", false, "also run the independent redundant-cast removal pass")
	rootCmd.Flags().BoolVar(&trace, "trace", false, "print the optimization statistics report")
	rootCmd.Flags().BoolVar(&runDemo, "demo", false, "run the bundled sample method instead of reading external input")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runRoot(cmd *cobra.Command, args []string) {
	if showVersion {
		fmt.Println(version.GetVersion())
		return
	}

	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg.Disable = append(cfg.Disable, disableNames...)
	if runCastRemoval {
		cfg.RunCastRemoval = true
	}

	if !runDemo {
		fmt.Fprintln(os.Stderr, "dexpeep: no bytecode reader is wired up; pass --demo to run the bundled sample, or embed pkg/peephole.Driver in a program that owns class/method enumeration")
		os.Exit(1)
	}

	methods, strPool, methodPool := buildDemoMethod()

	cat := catalog.New(methodPool)
	rules, warnings := peephole.NewEnabledCatalog(cat, cfg.Disable)
	for _, w := range warnings {
		fmt.Fprintln(os.Stderr, w)
	}

	fmt.Println("before:")
	printMethod(methods[0])

	driver := peephole.NewDriver(rules, strPool)
	stats := driver.Run(peephole.StaticMethodSource(methods))

	fmt.Println("\nafter:")
	printMethod(methods[0])

	if cfg.RunCastRemoval {
		cr := castremover.New()
		_, candidates, err := cr.Run(methods)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Printf("\n%s: %d candidate cast sequence(s) found (not rewritten)\n", cr.Name(), candidates)
	}

	if trace {
		fmt.Println()
		fmt.Print(stats.Report())
	}
}

// buildDemoMethod hand-builds spec §8 scenario 1: a StringBuilder
// no-arg-constructor-then-append-string chain, which Coalesce_InitVoid_AppendString
// collapses to a single-argument constructor call.
func buildDemoMethod() ([]*ir.Method, *ir.StringPool, *ir.MethodPool) {
	strPool := ir.NewStringPool()
	methodPool := ir.NewMethodPool()

	sbInit := methodPool.Intern("Ljava/lang/StringBuilder;", "<init>", "()V")
	sbAppend := methodPool.Intern("Ljava/lang/StringBuilder;", "append", "(Ljava/lang/String;)Ljava/lang/StringBuilder;")
	greeting := strPool.Intern("hello, ")

	const sb, str ir.Register = 1, 2
	block := ir.NewBlock(
		ir.NewInstruction(ir.OpInvokeDirect).SetSrcs(sb).SetMethod(sbInit),
		ir.NewInstruction(ir.OpConstString).SetDest(str).SetString(greeting),
		ir.NewInstruction(ir.OpInvokeVirtual).SetSrcs(sb, str).SetMethod(sbAppend),
		ir.NewInstruction(ir.OpMoveResultObject).SetDest(sb),
	)
	method := ir.NewMethod("greet", block)
	return []*ir.Method{method}, strPool, methodPool
}

func printMethod(m *ir.Method) {
	for _, block := range m.Blocks {
		for _, insn := range block.Instructions {
			fmt.Printf("  %s\n", insn)
		}
	}
}
