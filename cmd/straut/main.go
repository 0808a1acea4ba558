// Command straut is the solver's command-line driver: it runs one of a
// fixed registry of built-in formulas through the full
// preprocess/slice/solve/count pipeline and reports satisfiability and,
// when asked, a model count.
package main

func main() {
	Execute()
}
