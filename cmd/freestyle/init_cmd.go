package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default .freestyle.yaml config file",
	Long:  `Create a .freestyle.yaml configuration file in the current directory with sensible defaults.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		force, _ := cmd.Flags().GetBool("force")

		if _, err := os.Stat(defaultConfigPath); err == nil && !force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", defaultConfigPath)
		}

		if err := os.WriteFile(defaultConfigPath, []byte(defaultConfig), 0644); err != nil {
			return fmt.Errorf("writing config file: %w", err)
		}

		fmt.Println("Created " + defaultConfigPath)
		return nil
	},
}

const defaultConfig = `# freestyle configuration
# Docs: https://github.com/yacobolo/freestyle

# Shared settings
verbose: false
color: false

# Stylesheets
source: styles
include:
  - "**/*.css"
origin: author             # user-agent | user | author
gitignore: true

# Units
dpi: 160
font-scale: 1
em-size: 16

# Cascade
cache-size: 0              # 0 = default, negative disables the cache
default-state: normal
inherit-default-state: false

# Checking
check:
  strict: false
  output-format: issues    # issues | summary | full | json | markdown
  max-issues-per-linter: 0 # 0 = unlimited
  max-same-issues: 0       # 0 = unlimited
  print-lines: true
  print-linter-name: true

# Resolving
resolve:
  tree: nodes.yaml
  output-format: tree      # tree | json | yaml
`

func init() {
	initCmd.Flags().Bool("force", false, "Overwrite existing config file")
}
