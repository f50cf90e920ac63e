/*
Package cli provides helpers shared by the verity commands.

Exit codes:

	0  every check passed
	1  at least one check failed
	2  usage, configuration, rule file or data file error

Commands return errors and let ExitCode map them:

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.ExitCode(err))
	}

Output formatting:

	format, err := cli.ParseFormat(flags.format, cli.FormatText, cli.FormatJSON)
	if err != nil {
		return err
	}
	return cli.NewFormatter(format).FormatTo(os.Stdout, result)

Signal handling:

	ctx, stop := cli.SetupSignalHandler()
	defer stop()
*/
package cli
