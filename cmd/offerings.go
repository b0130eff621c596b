package cmd

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/leadspark/upwork-radar/internal/logger"
	"github.com/leadspark/upwork-radar/internal/offering"
	"github.com/leadspark/upwork-radar/internal/store"
)

const (
	PromptAddOffering = "Add a new offering"
	PromptSaveExit    = "Save and exit"
	PromptDiscardExit = "Exit without saving"
	PromptEdit        = "Edit"
	PromptDelete      = "Delete"
	PromptBack        = "back"
)

var offeringsCmd = &cobra.Command{
	Use:   "offerings",
	Short: "Manage the offering catalog interactively",
	Run: func(_ *cobra.Command, _ []string) {
		offerings()
	},
}

func init() {
	rootCmd.AddCommand(offeringsCmd)
}

func offerings() {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	settings := buildStore(ctx, config, logger)

	var persisted []offering.Offering
	store.LoadOr(ctx, settings, logger, store.KeyOfferings, &persisted)

	registry := offering.NewRegistry(persisted)
	logger.Info("loaded offerings", zap.Int("count", len(registry.All())))

	for {
		items := make([]string, 0)
		for _, off := range registry.All() {
			items = append(items, off.Name)
		}
		items = append(items, PromptAddOffering, PromptSaveExit, PromptDiscardExit)

		prompt := promptui.Select{
			Label: "Choose an offering and press ENTER",
			Items: items,
		}

		_, selected, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		switch selected {
		case PromptSaveExit:
			if err := settings.Save(ctx, store.KeyOfferings, registry.All()); err != nil {
				logger.Fatal("saving offerings", zap.Error(err))
			}
			logger.Info("offerings saved", zap.Int("count", len(registry.All())))
			return
		case PromptDiscardExit:
			logger.Info("exiting", zap.String("reason", "changes discarded"))
			return
		case PromptAddOffering:
			off, err := promptOffering(offering.Offering{})
			if err != nil {
				logger.Fatal("exiting", zap.Error(err))
			}
			if err := registry.Add(off); err != nil {
				logger.Warn("offering rejected", zap.Error(err))
			}
		default:
			if err := editOffering(registry, selected); err != nil {
				logger.Fatal("exiting", zap.Error(err))
			}
		}
	}
}

func editOffering(registry *offering.Registry, name string) error {
	actionPrompt := promptui.Select{
		Label: fmt.Sprintf("Offering %q", name),
		Items: []string{PromptEdit, PromptDelete, PromptBack},
	}

	_, action, err := actionPrompt.Run()
	if err != nil {
		return err
	}

	switch action {
	case PromptBack:
		return nil
	case PromptDelete:
		return registry.Delete(name)
	case PromptEdit:
		current, ok := registry.Find(name)
		if !ok {
			return fmt.Errorf("there is no such offering %s", name)
		}
		updated, err := promptOffering(current)
		if err != nil {
			return err
		}
		return registry.Update(name, updated)
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

// promptOffering collects all offering fields, prefilled with the current
// values when editing.
func promptOffering(current offering.Offering) (offering.Offering, error) {
	name, err := promptString("Name", current.Name)
	if err != nil {
		return offering.Offering{}, err
	}

	keywords, err := promptString("Search keywords (comma separated)", strings.Join(current.Keywords, ", "))
	if err != nil {
		return offering.Offering{}, err
	}

	skills, err := promptString("Skills (comma separated)", strings.Join(current.Skills, ", "))
	if err != nil {
		return offering.Offering{}, err
	}

	rateMin, err := promptRate("Hourly rate min", current.RateMin)
	if err != nil {
		return offering.Offering{}, err
	}

	rateMax, err := promptRate("Hourly rate max", current.RateMax)
	if err != nil {
		return offering.Offering{}, err
	}

	return offering.Offering{
		Name:     name,
		Keywords: splitList(keywords),
		Skills:   splitList(skills),
		RateMin:  rateMin,
		RateMax:  rateMax,
	}, nil
}

func promptString(label, current string) (string, error) {
	prompt := promptui.Prompt{
		Label:   label,
		Default: current,
	}
	value, err := prompt.Run()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(value), nil
}

func promptRate(label string, current float64) (float64, error) {
	prompt := promptui.Prompt{
		Label:   label,
		Default: strconv.FormatFloat(current, 'f', -1, 64),
		Validate: func(input string) error {
			if strings.TrimSpace(input) == "" {
				return nil
			}
			_, err := strconv.ParseFloat(strings.TrimSpace(input), 64)
			return err
		},
	}

	value, err := prompt.Run()
	if err != nil {
		return 0, err
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	return strconv.ParseFloat(value, 64)
}

func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
