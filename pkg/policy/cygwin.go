// pkg/policy/cygwin.go

package policy

// Cygwin returns the shipped product table. The setup.exe installer
// records its state under Software\Cygwin\setup ("rootdir" and
// "last-cache"); ancient releases used the "Cygnus Solutions" vendor
// key, which is still deleted for machines upgraded in place.
func Cygwin() *Product {
	return &Product{
		Name:      "Cygwin",
		Signature: "cygwin",
		KnownProcesses: []string{
			"bash.exe",
			"sh.exe",
			"dash.exe",
			"zsh.exe",
			"mintty.exe",
			"xterm.exe",
			"XWin.exe",
			"ssh-agent.exe",
			"cygrunsrv.exe",
		},
		SetupKeys: []Key{
			{Hive: HiveLocalMachine, Path: `SOFTWARE\Cygwin\setup`},
			{Hive: HiveLocalMachine, Path: `SOFTWARE\WOW6432Node\Cygwin\setup`},
			{Hive: HiveCurrentUser, Path: `SOFTWARE\Cygwin\setup`},
		},
		RootdirValue: "rootdir",
		CacheValue:   "last-cache",
		VersionValue: "setup-version",
		RemovalKeys: []Key{
			{Hive: HiveLocalMachine, Path: `SOFTWARE\Cygwin`},
			{Hive: HiveLocalMachine, Path: `SOFTWARE\WOW6432Node\Cygwin`},
			{Hive: HiveCurrentUser, Path: `SOFTWARE\Cygwin`},
			{Hive: HiveLocalMachine, Path: `SOFTWARE\Cygnus Solutions`},
			{Hive: HiveLocalMachine, Path: `SOFTWARE\WOW6432Node\Cygnus Solutions`},
			{Hive: HiveCurrentUser, Path: `SOFTWARE\Cygnus Solutions`},
		},
		DefaultInstallRoots: []string{
			`C:\cygwin`,
			`C:\cygwin64`,
		},
		EnvVar: "CYGWIN",
		ShortcutGlobs: []string{
			"Cygwin*.lnk",
			"Cygwin Terminal*.lnk",
		},
		FolderPrefix: "Cygwin",
	}
}
