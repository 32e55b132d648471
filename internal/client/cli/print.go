package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/dmitrijs2005/cloudshare/internal/client/models"
)

func printFiles(w io.Writer, files []models.FileSummary) {
	if len(files) == 0 {
		fmt.Fprintln(w, "No files")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSIZE\tTYPE\tFAV\tCREATED")
	for _, f := range files {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			f.ID, f.Name, f.DisplaySize(), f.Kind, star(f.Favorite), created(f))
	}
	_ = tw.Flush()
}

func printFile(w io.Writer, f models.FileDetail) {
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%s\n", f.ID)
	fmt.Fprintf(tw, "Name:\t%s\n", f.Name)
	fmt.Fprintf(tw, "Size:\t%s\n", f.DisplaySize())
	fmt.Fprintf(tw, "Type:\t%s\n", f.Kind)
	if f.MimeType != "" {
		fmt.Fprintf(tw, "MIME:\t%s\n", f.MimeType)
	}
	fmt.Fprintf(tw, "Created:\t%s\n", created(f.FileSummary))
	fmt.Fprintf(tw, "Public:\t%s\n", yesNo(f.IsPublic))
	if f.FileURL != "" {
		fmt.Fprintf(tw, "URL:\t%s\n", f.FileURL)
	}
	_ = tw.Flush()
}

func printContacts(w io.Writer, cs []models.Contact) {
	if len(cs) == 0 {
		fmt.Fprintln(w, "No contacts")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, c := range cs {
		fmt.Fprintf(tw, "%s\t%s\n", c.Email, c.Name)
	}
	_ = tw.Flush()
}

func quotaLine(q models.QuotaInfo) string {
	if q.Unlimited() {
		return fmt.Sprintf("%s files used (unlimited)", humanize.Comma(q.Used))
	}
	line := fmt.Sprintf("%s of %s files used", humanize.Comma(q.Used), humanize.Comma(*q.Limit))
	if p, ok := q.PercentUsed(); ok {
		line += fmt.Sprintf(" (%d%%)", p)
	}
	return line
}

func star(b bool) string {
	if b {
		return "*"
	}
	return ""
}

func created(f models.FileSummary) string {
	if f.CreatedAt.IsZero() {
		return "-"
	}
	return humanize.Time(f.CreatedAt)
}
