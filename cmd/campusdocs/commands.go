package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"campusdocs/internal/client"
	"campusdocs/internal/client/selection"
	"campusdocs/internal/model"
)

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the server and its catalog store are up",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := newClient().Health(cmd.Context()); err != nil {
				return err
			}
			fmt.Println(green("✓"), "server is healthy")
			return nil
		},
	}
}

func newSignupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "signup",
		Short: "Bootstrap the admin account on the identity provider",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := newClient().Signup(cmd.Context()); err != nil {
				return err
			}
			fmt.Println(green("✓"), "admin account ready")
			return nil
		},
	}
}

func newCatalogCmd() *cobra.Command {
	var contentType, module string

	cmd := &cobra.Command{
		Use:   "catalog <department> <semester> <subject>",
		Short: "Show the file catalog for a subject",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Walk the same selection transitions the portal UI performs so
			// invalid combinations (notes without a module, unknown content
			// types) fail before any request is made.
			var sel selection.Selection
			sel.SelectDepartment(args[0])
			sel.SelectSemester(args[1])
			sel.SelectSubject(args[2])
			if contentType != "" {
				if err := sel.SelectContentType(contentType); err != nil {
					return err
				}
			}
			if module != "" {
				if err := sel.SelectModule(module); err != nil {
					return err
				}
			}

			dept, sem, subject, ok := sel.CatalogPath()
			if !ok {
				return fmt.Errorf("department, semester and subject are required")
			}

			cat, err := newClient().Catalog(cmd.Context(), dept, sem, subject)
			if err != nil {
				return err
			}

			fmt.Printf("%s %s / %s / %s\n", bold("catalog:"), dept, sem, subject)
			if sel.ContentType != "" && !sel.NeedsModule() {
				printBucket(string(sel.ContentType), sel.Module, cat.Bucket(sel.ContentType, sel.Module))
				return nil
			}

			printBucket("previousYearPaper", "", cat.PreviousYearPapers)
			printBucket("iaPaper", "", cat.IAPapers)
			modules := make([]string, 0, len(cat.Notes))
			for k := range cat.Notes {
				modules = append(modules, k)
			}
			sort.Strings(modules)
			for _, m := range modules {
				printBucket("notes", m, cat.Notes[m])
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&contentType, "type", "", "limit output to one content type (previousYearPaper|iaPaper|notes)")
	cmd.Flags().StringVar(&module, "module", "", "notes module (1..5), requires --type notes")
	return cmd
}

func printBucket(contentType, module string, records []model.FileRecord) {
	label := contentType
	if module != "" {
		label = contentType + " module " + module
	}
	if len(records) == 0 {
		fmt.Printf("  %s %s\n", cyan(label+":"), gray("(empty)"))
		return
	}
	fmt.Printf("  %s\n", cyan(label+":"))
	for _, r := range records {
		fmt.Printf("    %s  %s  %s\n", r.ID, r.Name, gray(r.Path))
	}
}

func newDepartmentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "departments",
		Short: "Show the department codes and semester range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := newClient().Departments(cmd.Context())
			if err != nil {
				return err
			}
			for _, d := range v.Departments {
				fmt.Println(" ", d)
			}
			fmt.Println(gray("semesters: 1.." + strconv.Itoa(v.Semesters)))
			return nil
		},
	}
}

func newSubjectsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subjects",
		Short: "List or register subjects",
	}

	list := &cobra.Command{
		Use:   "list <department> <semester>",
		Short: "List registered subjects",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			subjects, err := newClient().Subjects(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			if len(subjects.Subjects) == 0 {
				fmt.Println(gray("no subjects registered"))
				return nil
			}
			for _, s := range subjects.Subjects {
				fmt.Println(" ", s)
			}
			return nil
		},
	}

	add := &cobra.Command{
		Use:   "add <department> <semester> <subject>",
		Short: "Register a subject (idempotent)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := newClient().AddSubject(cmd.Context(), args[0], args[1], args[2]); err != nil {
				return err
			}
			fmt.Println(green("✓"), "subject registered:", args[2])
			return nil
		},
	}

	cmd.AddCommand(list, add)
	return cmd
}

func newUploadCmd() *cobra.Command {
	var dept, sem, subject, contentType, module string

	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a file into a subject's catalog (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			rec, err := newClient().Upload(cmd.Context(), client.UploadInput{
				Department:  dept,
				Semester:    sem,
				Subject:     subject,
				ContentType: contentType,
				Module:      module,
				Filename:    filepath.Base(args[0]),
				Reader:      f,
			})
			if err != nil {
				return err
			}
			fmt.Println(green("✓"), "uploaded", rec.Name)
			fmt.Println("  id:  ", rec.ID)
			fmt.Println("  path:", gray(rec.Path))
			return nil
		},
	}

	cmd.Flags().StringVar(&dept, "department", "", "department code (e.g. CSE)")
	cmd.Flags().StringVar(&sem, "semester", "", "semester number")
	cmd.Flags().StringVar(&subject, "subject", "", "subject name")
	cmd.Flags().StringVar(&contentType, "type", "", "content type (previousYearPaper|iaPaper|notes)")
	cmd.Flags().StringVar(&module, "module", "", "notes module (1.."+strconv.Itoa(model.ModuleCount)+")")
	_ = cmd.MarkFlagRequired("department")
	_ = cmd.MarkFlagRequired("semester")
	_ = cmd.MarkFlagRequired("subject")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func newDeleteCmd() *cobra.Command {
	var dept, sem, subject string

	cmd := &cobra.Command{
		Use:   "delete <fileId>",
		Short: "Delete a file from the catalog (admin)",
		Long: "Delete a file by its ID. With --department/--semester/--subject the " +
			"catalog is addressed directly; otherwise the server resolves the ID " +
			"through its file index.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newClient()
			if dept != "" || sem != "" || subject != "" {
				if dept == "" || sem == "" || subject == "" {
					return fmt.Errorf("--department, --semester and --subject must be given together")
				}
				if err := c.Delete(cmd.Context(), dept, sem, subject, args[0]); err != nil {
					return err
				}
			} else if err := c.DeleteByID(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println(green("✓"), "deleted", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&dept, "department", "", "department code")
	cmd.Flags().StringVar(&sem, "semester", "", "semester number")
	cmd.Flags().StringVar(&subject, "subject", "", "subject name")
	return cmd
}

func newDownloadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "download <storage-path>",
		Short: "Get a signed download URL for a stored file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := newClient().DownloadURL(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Println(u)
			fmt.Fprintln(os.Stderr, yellow("note:"), "link expires in 1 hour")
			return nil
		},
	}
}
