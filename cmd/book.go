package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/fraperfra/TELEMARKETING/internal/calendar"
	"github.com/fraperfra/TELEMARKETING/internal/model"
	"github.com/fraperfra/TELEMARKETING/internal/scheduling"
)

var bookCmd = &cobra.Command{
	Use:   "book",
	Short: "Book the next free slot of an agent for a contact",
	RunE: func(cmd *cobra.Command, args []string) error {
		q, err := slotQueryFlags(cmd)
		if err != nil {
			return err
		}
		contactID, err := uuidFlag(cmd, "contact")
		if err != nil {
			return err
		}
		method, _ := cmd.Flags().GetString("method")

		req := scheduling.BookingRequest{
			ContactID:       contactID,
			AgentID:         q.AgentID,
			Timeframe:       q.Timeframe,
			DurationMinutes: q.DurationMinutes,
			Method:          model.BookingMethod(method),
			From:            q.From,
		}
		if raw, _ := cmd.Flags().GetString("booked-by"); raw != "" {
			bookedBy, err := uuid.Parse(raw)
			if err != nil {
				return fmt.Errorf("--booked-by: %w", err)
			}
			req.BookedBy = &bookedBy
		}

		a, err := openApp(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		appt, err := a.scheduler.BookAppointment(cmd.Context(), req)
		if err != nil {
			return fmt.Errorf("%s: %w", scheduling.OutcomeOf(err), err)
		}
		loc := a.scheduler.Location()
		fmt.Fprintf(cmd.OutOrStdout(), "booked %s\t%s\t%s\t%s\n",
			appt.ID,
			appt.ScheduledFor.In(loc).Format(time.RFC3339),
			calendar.FormatRange(calendar.TimeRange{Start: appt.ScheduledFor, End: appt.End()}, loc),
			appt.Title,
		)
		return nil
	},
}

func init() {
	addSlotQueryFlags(bookCmd)
	bookCmd.Flags().String("contact", "", "contact id (required)")
	bookCmd.Flags().String("method", string(model.BookingMethodAutoAI), "booking method: auto_ai or manual")
	bookCmd.Flags().String("booked-by", "", "user id of the operator (default the agent)")
	_ = bookCmd.MarkFlagRequired("contact")
	rootCmd.AddCommand(bookCmd)
}
