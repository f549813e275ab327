package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ndnc-automation/ndncctl/internal/config"
	"github.com/ndnc-automation/ndncctl/internal/models"
)

var configCmd = &cobra.Command{
	Use:     "config",
	Aliases: []string{"settings"},
	Short:   "Show or change client settings",
	Long: `Show or change the settings stored in ~/.ndncctl/settings.yaml.

Keys:
  ` + strings.Join(config.SettingKeys(), "\n  "),
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the settings file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.GlobalSettingsFile()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:               "get <key>",
	Short:             "Print one setting",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeSettingKeys,
	RunE:              runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:               "set <key> <value>",
	Short:             "Change one setting in the settings file",
	Args:              cobra.ExactArgs(2),
	ValidArgsFunction: completeSettingKeys,
	RunE:              runConfigSet,
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configShowCmd)
}

func completeSettingKeys(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return config.SettingKeys(), cobra.ShellCompDirectiveNoFileComp
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	_, err = os.Stdout.Write(data)
	return err
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	value, err := config.GetSetting(settings, args[0])
	if err != nil {
		return err
	}
	fmt.Println(value)
	return nil
}

// runConfigSet edits the file itself, so flag and environment overrides
// are not written back.
func runConfigSet(cmd *cobra.Command, args []string) error {
	path, err := config.GlobalSettingsFile()
	if err != nil {
		return err
	}
	settings, err := config.LoadYAMLOrDefault(path, models.NewSettings)
	if err != nil {
		return err
	}
	settings.ApplyDefaults()

	if err := config.SetSetting(settings, args[0], args[1]); err != nil {
		return err
	}
	if err := config.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	value, _ := config.GetSetting(settings, args[0])
	fmt.Printf("%s %s = %s\n", styleSuccess.Render("✓"), styleLabel.Render(args[0]), styleValue.Render(value))
	return nil
}
