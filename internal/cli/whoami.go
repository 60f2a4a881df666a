package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/shule/internal/api"
	"github.com/theirongolddev/shule/internal/output"
)

type whoamiReport struct {
	Name      string                 `json:"name"`
	Email     string                 `json:"email,omitempty"`
	Subject   string                 `json:"subject,omitempty"`
	SchoolID  string                 `json:"school_id,omitempty"`
	ExpiresAt string                 `json:"expires_at,omitempty"`
	Expired   bool                   `json:"expired"`
	Schools   []api.SchoolMembership `json:"schools"`
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user and their schools",
		Long: `Show who the token belongs to and which schools the account can use.
The token's claims are decoded locally; the school list comes from the API.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := formatter(cmd)
			if err != nil {
				return err
			}
			session, err := requireSession()
			if err != nil {
				return err
			}

			id := session.Identity()
			report := whoamiReport{
				Name:     id.Name,
				Email:    id.Email,
				SchoolID: id.SchoolID,
			}
			if claims := session.Claims(); claims != nil {
				report.Subject = claims.Subject
				report.Expired = claims.Expired(time.Now())
				if claims.ExpiresAt != nil {
					report.ExpiresAt = output.FormatTime(claims.ExpiresAt.Time)
				}
			}

			ctx, cancel := commandContext(cmd)
			defer cancel()
			schools, err := newClient(session).MySchools(ctx)
			if err != nil {
				return apiFailure("could not list your schools", err)
			}
			report.Schools = schools

			return f.OutputData(report, func(w io.Writer) error {
				return writeWhoami(w, report)
			})
		},
	}
}

func writeWhoami(w io.Writer, r whoamiReport) error {
	fmt.Fprintf(w, "%s", r.Name)
	if r.Email != "" && r.Email != r.Name {
		fmt.Fprintf(w, " <%s>", r.Email)
	}
	fmt.Fprintln(w)
	if r.ExpiresAt != "" {
		state := "expires"
		if r.Expired {
			state = "expired"
		}
		fmt.Fprintf(w, "  token %s %s\n", state, r.ExpiresAt)
	}
	if r.SchoolID == "" {
		fmt.Fprintln(w, "  no active school")
	}

	if len(r.Schools) == 0 {
		fmt.Fprintln(w, "\nNo schools yet. Create one with 'shule onboard'.")
		return nil
	}
	fmt.Fprintf(w, "\n%s:\n", output.CountStr(len(r.Schools), "school", "schools"))
	tbl := output.NewTable(w, "", "NAME", "ROLE", "ID")
	for _, s := range r.Schools {
		marker := ""
		if s.ID == r.SchoolID {
			marker = "*"
		}
		tbl.AddRow(marker, s.Name, s.Role, s.ID)
	}
	tbl.Render()
	return nil
}
