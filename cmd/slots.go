package main

import (
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/fraperfra/TELEMARKETING/internal/scheduling"
)

var slotsCmd = &cobra.Command{
	Use:   "slots",
	Short: "Search an agent's calendar for free slots",
}

var slotsNextCmd = &cobra.Command{
	Use:   "next",
	Short: "Print the earliest free slot",
	RunE: func(cmd *cobra.Command, args []string) error {
		q, err := slotQueryFlags(cmd)
		if err != nil {
			return err
		}
		a, err := openApp(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		slot, err := a.scheduler.FindNextSlot(cmd.Context(), q)
		if err != nil {
			return err
		}
		if slot == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "no free slot in the search horizon")
			return nil
		}
		printSlots(cmd.OutOrStdout(), []scheduling.TimeSlot{*slot})
		return nil
	},
}

var slotsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print several spaced free slots",
	RunE: func(cmd *cobra.Command, args []string) error {
		q, err := slotQueryFlags(cmd)
		if err != nil {
			return err
		}
		count, _ := cmd.Flags().GetInt("count")

		a, err := openApp(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		slots, err := a.scheduler.FindSlots(cmd.Context(), q, count)
		if err != nil {
			return err
		}
		printSlots(cmd.OutOrStdout(), slots)
		return nil
	},
}

var slotsSuggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Print slots to offer a lead, by lead temperature",
	RunE: func(cmd *cobra.Command, args []string) error {
		agentID, err := uuidFlag(cmd, "agent")
		if err != nil {
			return err
		}
		rawTemp, _ := cmd.Flags().GetString("temperature")
		temperature, err := scheduling.ParseLeadTemperature(rawTemp)
		if err != nil {
			return err
		}
		duration, _ := cmd.Flags().GetInt("duration")
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := openApp(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		slots, err := a.scheduler.SuggestSlots(cmd.Context(), agentID, temperature, duration, limit)
		if err != nil {
			return err
		}
		printSlots(cmd.OutOrStdout(), slots)
		return nil
	},
}

func slotQueryFlags(cmd *cobra.Command) (scheduling.SlotQuery, error) {
	agentID, err := uuidFlag(cmd, "agent")
	if err != nil {
		return scheduling.SlotQuery{}, err
	}
	duration, _ := cmd.Flags().GetInt("duration")
	rawTimeframe, _ := cmd.Flags().GetString("timeframe")
	timeframe, err := scheduling.ParseTimeframe(rawTimeframe)
	if err != nil {
		return scheduling.SlotQuery{}, err
	}
	from, err := timeFlag(cmd, "from")
	if err != nil {
		return scheduling.SlotQuery{}, err
	}
	return scheduling.SlotQuery{
		AgentID:         agentID,
		DurationMinutes: duration,
		Timeframe:       timeframe,
		From:            from,
	}, nil
}

func uuidFlag(cmd *cobra.Command, name string) (uuid.UUID, error) {
	raw, _ := cmd.Flags().GetString(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("--%s: %w", name, err)
	}
	return id, nil
}

func timeFlag(cmd *cobra.Command, name string) (time.Time, error) {
	raw, _ := cmd.Flags().GetString(name)
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s: %w", name, err)
	}
	return t, nil
}

func printSlots(w io.Writer, slots []scheduling.TimeSlot) {
	if len(slots) == 0 {
		fmt.Fprintln(w, "no free slots")
		return
	}
	for _, s := range slots {
		fmt.Fprintf(w, "%s\t%d min\t%s\n", s.Start.Format(time.RFC3339), s.DurationMinutes, s.Formatted)
	}
}

func addSlotQueryFlags(cmd *cobra.Command) {
	cmd.Flags().String("agent", "", "agent id (required)")
	cmd.Flags().Int("duration", 0, "appointment length in minutes (default from config)")
	cmd.Flags().String("timeframe", "", "morning, afternoon or evening")
	cmd.Flags().String("from", "", "search from this RFC 3339 instant (default now)")
	_ = cmd.MarkFlagRequired("agent")
}

func init() {
	addSlotQueryFlags(slotsNextCmd)
	addSlotQueryFlags(slotsListCmd)
	slotsListCmd.Flags().Int("count", 3, "number of slots")

	slotsSuggestCmd.Flags().String("agent", "", "agent id (required)")
	slotsSuggestCmd.Flags().String("temperature", string(scheduling.LeadWarm), "lead temperature: HOT, WARM or COLD")
	slotsSuggestCmd.Flags().Int("duration", 0, "appointment length in minutes (default from config)")
	slotsSuggestCmd.Flags().Int("limit", scheduling.DefaultSuggestions, "number of suggestions")
	_ = slotsSuggestCmd.MarkFlagRequired("agent")

	slotsCmd.AddCommand(slotsNextCmd, slotsListCmd, slotsSuggestCmd)
	rootCmd.AddCommand(slotsCmd)
}
