package commands

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/benvon/thai-toolkit/internal/progress"
	"github.com/benvon/thai-toolkit/internal/services/recommend"
)

const showWeakLimit = 5

// NewProgressCmd creates the progress command with show and reset subcommands.
func NewProgressCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Inspect or reset learner progress",
		Long:  "Show or reset the progress record of one learner. The learner id is the value of the thai-toolkit-learner cookie.",
	}
	cmd.PersistentFlags().String("learner", "", "Learner id (required)")
	cmd.AddCommand(newProgressShowCmd())
	cmd.AddCommand(newProgressResetCmd())
	return cmd
}

func learnerFlag(cmd *cobra.Command) (string, error) {
	raw, err := cmd.Flags().GetString("learner")
	if err != nil {
		return "", err
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("--learner is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("--learner must be a UUID: %w", err)
	}
	return id.String(), nil
}

func newProgressShowCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show a learner's progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			learnerID, err := learnerFlag(cmd)
			if err != nil {
				return err
			}
			cfg, kv, err := openBackend(cmd.Context())
			if err != nil {
				return err
			}
			defer closeBackend(kv, cmd.ErrOrStderr())

			store := progress.NewManager(kv, progress.WithLocation(cfg.Location)).For(learnerID)
			p := store.Progress(cmd.Context())
			out := cmd.OutOrStdout()

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(p)
			}

			if !progress.HasProgress(p) {
				_, _ = fmt.Fprintf(out, "No progress recorded for learner %s\n", learnerID)
				return nil
			}

			_, _ = fmt.Fprintf(out, "Learner %s\n", learnerID)
			_, _ = fmt.Fprintf(out, "  Sessions: %d (flashcards %d, tones %d, chat %d)\n",
				p.Overall.TotalSessions, p.Flashcards.TotalSessions, p.Tones.TotalSessions, p.Chat.TotalSessions)
			_, _ = fmt.Fprintf(out, "  Current streak: %d day(s)\n", p.Overall.CurrentStreak)
			_, _ = fmt.Fprintf(out, "  Last session: %s\n", formatDate(p.Overall.LastSessionDate, cfg.Location))
			_, _ = fmt.Fprintf(out, "  Flashcard accuracy: %d%%\n", progress.FlashcardAccuracy(p))
			_, _ = fmt.Fprintf(out, "  Tone accuracy: %d%%\n", progress.OverallToneAccuracy(p))

			if words := progress.SortedWeakWords(p, showWeakLimit); len(words) > 0 {
				_, _ = fmt.Fprintln(out, "  Weak words:")
				for _, w := range words {
					_, _ = fmt.Fprintf(out, "    %s (%s) missed %d, streak %d\n", w.Thai, w.English, w.IncorrectCount, w.CorrectStreak)
				}
			}
			if sets := progress.SortedWeakTones(p, showWeakLimit); len(sets) > 0 {
				_, _ = fmt.Fprintln(out, "  Weak tone sets:")
				for _, s := range sets {
					_, _ = fmt.Fprintf(out, "    %s/%s missed %d, streak %d\n", s.BaseSound, s.TargetTone, s.IncorrectCount, s.CorrectStreak)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the raw progress record as JSON")
	return cmd
}

func newProgressResetCmd() *cobra.Command {
	var confirm bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete a learner's progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			learnerID, err := learnerFlag(cmd)
			if err != nil {
				return err
			}
			if !confirm {
				return fmt.Errorf("refusing to reset progress without --yes")
			}
			_, kv, err := openBackend(cmd.Context())
			if err != nil {
				return err
			}
			defer closeBackend(kv, cmd.ErrOrStderr())

			progress.NewManager(kv).For(learnerID).Reset(cmd.Context())
			if err := kv.Delete(cmd.Context(), recommend.CacheKey(learnerID)); err != nil {
				return fmt.Errorf("progress reset but cached recommendations were kept: %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Progress reset for learner %s\n", learnerID)
			return nil
		},
	}
	cmd.Flags().BoolVar(&confirm, "yes", false, "Confirm the reset")
	return cmd
}

func formatDate(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return "never"
	}
	return t.In(loc).Format("2006-01-02 15:04")
}
