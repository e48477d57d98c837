package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mixerboard/internal/domain/entities"
	"mixerboard/internal/engine"
)

func newCreateCmd() *cobra.Command {
	var (
		title    string
		detail   string
		start    string
		end      string
		deadline string
		min      int
		max      int
		image    string
		person   personFlags
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an event (you join it as its first participant)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			startT, err := ParseDateTime(start)
			if err != nil {
				return err
			}
			endT, err := ParseDateTime(end)
			if err != nil {
				return err
			}
			deadlineT, err := ParseDeadline(deadline)
			if err != nil {
				return err
			}
			creator, err := person.input()
			if err != nil {
				return err
			}

			in := engine.CreateInput{
				Title:    title,
				Detail:   detail,
				Start:    startT,
				End:      endT,
				Deadline: deadlineT,
				Creator:  creator,
			}
			if cmd.Flags().Changed("min") {
				in.MinPeople = &min
			}
			if cmd.Flags().Changed("max") {
				in.MaxPeople = &max
			}

			rt, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.close()

			ev, msg, err := rt.service.CreateEvent(cmd.Context(), in, image, rt.deviceID)
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), msg)
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			fmt.Fprintf(cmd.OutOrStdout(), "event id: %s\n", ev.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "event title")
	cmd.Flags().StringVar(&detail, "detail", "", "free-text detail (up to 100 characters)")
	cmd.Flags().StringVar(&start, "start", "", "start (YYYY-MM-DD HH:MM, JST)")
	cmd.Flags().StringVar(&end, "end", "", "end (YYYY-MM-DD HH:MM, JST)")
	cmd.Flags().StringVar(&deadline, "deadline", "", "sign-up deadline (YYYY-MM-DD means 23:59 that day)")
	cmd.Flags().IntVar(&min, "min", 0, "minimum participant count")
	cmd.Flags().IntVar(&max, "max", 0, "maximum participant count")
	cmd.Flags().StringVar(&image, "image", "", "path to an image to attach")
	person.register(cmd)
	return cmd
}

// personFlags are the shared profile flags for create and join.
type personFlags struct {
	name  string
	univ  string
	grade string
	part  string
}

func (f *personFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "your name")
	cmd.Flags().StringVar(&f.univ, "univ", "", "university ("+strings.Join(entities.Universities, "/")+")")
	cmd.Flags().StringVar(&f.grade, "grade", "", "year ("+strings.Join(entities.Grades, "/")+")")
	cmd.Flags().StringVar(&f.part, "part", "", "instrument part (e.g. "+strings.Join(entities.Parts, ", ")+")")
}

// input validates the choice fields against their fixed sets. The part is a
// suggested list, so any non-empty value passes through.
func (f *personFlags) input() (engine.PersonInput, error) {
	if f.univ != "" && !entities.ValidUniversity(f.univ) {
		return engine.PersonInput{}, fmt.Errorf("university must be one of: %s", strings.Join(entities.Universities, ", "))
	}
	if f.grade != "" && !entities.ValidGrade(f.grade) {
		return engine.PersonInput{}, fmt.Errorf("grade must be one of: %s", strings.Join(entities.Grades, ", "))
	}
	return engine.PersonInput{
		Name:       f.name,
		University: f.univ,
		Grade:      f.grade,
		Part:       f.part,
	}, nil
}
