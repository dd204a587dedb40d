package env

import "flag"

type Args struct {
	Config     *string
	Test       *bool
	Diagnostic *bool
	Verbose    *bool
	Metrics    *bool
}

// ParseArgs registers the station flags on fs and parses args.
func ParseArgs(fs *flag.FlagSet, args []string) (Args, error) {
	a := Args{
		Config:     fs.String("config", "", "station config file (YAML), built in layout if empty"),
		Test:       fs.Bool("test", false, "test mode, no hardware: needles are logged only"),
		Diagnostic: fs.Bool("diag", false, "run the indicator diagnostic sweep before starting"),
		Verbose:    fs.Bool("verbose", false, "debug logging"),
		Metrics:    fs.Bool("metrics", false, "serve prometheus metrics (also SENDPROMDATA=true)"),
	}
	err := fs.Parse(args)
	return a, err
}
