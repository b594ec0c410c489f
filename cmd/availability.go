package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/fraperfra/TELEMARKETING/internal/model"
	"github.com/fraperfra/TELEMARKETING/internal/scheduling"
)

var availabilityCmd = &cobra.Command{
	Use:   "availability",
	Short: "Manage an agent's weekly availability",
}

var availabilitySeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Replace an agent's schedule with Monday to Friday 09:00-18:00",
	RunE: func(cmd *cobra.Command, args []string) error {
		agentID, err := uuidFlag(cmd, "agent")
		if err != nil {
			return err
		}
		a, err := openApp(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		rules := scheduling.DefaultWeeklyRules(agentID)
		if err := a.availability.ReplaceRules(cmd.Context(), agentID, rules); err != nil {
			return fmt.Errorf("replace rules: %w", err)
		}
		slog.Info("Default availability saved", "agent_id", agentID, "rules", len(rules))
		return nil
	},
}

var availabilityBlockCmd = &cobra.Command{
	Use:   "block",
	Short: "Block a whole day for an agent",
	RunE: func(cmd *cobra.Command, args []string) error {
		agentID, err := uuidFlag(cmd, "agent")
		if err != nil {
			return err
		}
		rawDate, _ := cmd.Flags().GetString("date")
		reason, _ := cmd.Flags().GetString("reason")

		a, err := openApp(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		date, err := time.ParseInLocation(time.DateOnly, rawDate, a.scheduler.Location())
		if err != nil {
			return fmt.Errorf("--date: %w", err)
		}
		exc := &model.AvailabilityException{
			AgentID:       agentID,
			ExceptionDate: model.CalendarDate(date),
			Reason:        reason,
		}
		if err := a.availability.AddException(cmd.Context(), exc); err != nil {
			return fmt.Errorf("add exception: %w", err)
		}
		slog.Info("Day blocked", "agent_id", agentID, "date", rawDate)
		return nil
	},
}

func init() {
	availabilitySeedCmd.Flags().String("agent", "", "agent id (required)")
	_ = availabilitySeedCmd.MarkFlagRequired("agent")

	availabilityBlockCmd.Flags().String("agent", "", "agent id (required)")
	availabilityBlockCmd.Flags().String("date", "", "day to block, YYYY-MM-DD (required)")
	availabilityBlockCmd.Flags().String("reason", "", "why the day is blocked")
	_ = availabilityBlockCmd.MarkFlagRequired("agent")
	_ = availabilityBlockCmd.MarkFlagRequired("date")

	availabilityCmd.AddCommand(availabilitySeedCmd, availabilityBlockCmd)
	rootCmd.AddCommand(availabilityCmd)
}
