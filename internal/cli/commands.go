package cli

import (
	"github.com/joacominatel/dbscope/internal/app"
	"github.com/joacominatel/dbscope/internal/metadata"
	"github.com/spf13/cobra"
)

// refFlags binds the object selector and its scope.
type refFlags struct {
	table   string
	view    string
	aliases map[string]string
	catalog string
	schema  string
}

func (f *refFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.table, "table", "", "table name")
	cmd.Flags().StringVar(&f.view, "view", "", "view name")
	cmd.Flags().StringToStringVar(&f.aliases, "alias", nil, "other object kind, as kind=name (e.g. \"materialized view=mv_sales\")")
	cmd.Flags().StringVar(&f.catalog, "catalog", "", "catalog containing the object")
	cmd.Flags().StringVar(&f.schema, "schema", "", "schema containing the object")
}

func (f *refFlags) ref() metadata.ObjectRef {
	return metadata.ObjectRef{
		Selector: metadata.Selector{Table: f.table, View: f.view, Aliases: f.aliases},
		Catalog:  f.catalog,
		Schema:   f.schema,
	}
}

func newTypesCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "Show the object-type hierarchy of a connection",
		Example: `  dbscope types --dsn postgresql://localhost/app
  dbscope types --conn prod -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withSession(cmd.Context(), func(s *app.Session) error {
				h, err := s.ListObjectTypes(cmd.Context())
				if err != nil {
					return err
				}
				return renderTypes(cmd.OutOrStdout(), h, opts.output)
			})
		},
	}
}

func newObjectsCommand(opts *options) *cobra.Command {
	var filter metadata.ObjectFilter

	cmd := &cobra.Command{
		Use:   "objects",
		Short: "List catalogs, schemas or tables one level below the filter",
		Long: `List the objects one level below the given scope.

Without --catalog the backend's catalogs are listed (if it has any), without
--schema its schemas (if it has any), otherwise the tables and views matching
--name and --type.`,
		Example: `  dbscope objects
  dbscope objects --catalog app --schema public --type view`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withSession(cmd.Context(), func(s *app.Session) error {
				objs, err := s.ListObjects(cmd.Context(), filter)
				if err != nil {
					return err
				}
				return renderObjects(cmd.OutOrStdout(), objs, opts.output)
			})
		},
	}

	cmd.Flags().StringVar(&filter.Catalog, "catalog", "", "catalog to list under")
	cmd.Flags().StringVar(&filter.Schema, "schema", "", "schema to list under")
	cmd.Flags().StringVar(&filter.Name, "name", "", "exact object name")
	cmd.Flags().StringVar(&filter.Type, "type", "", "object type (e.g. table, view)")
	return cmd
}

func newColumnsCommand(opts *options) *cobra.Command {
	var f refFlags

	cmd := &cobra.Command{
		Use:   "columns",
		Short: "List the columns of a table or view",
		Example: `  dbscope columns --table orders --schema public
  dbscope columns --alias "materialized view=mv_sales"`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withSession(cmd.Context(), func(s *app.Session) error {
				cols, err := s.ListColumns(cmd.Context(), f.ref())
				if err != nil {
					return err
				}
				return renderColumns(cmd.OutOrStdout(), cols, opts.output)
			})
		},
	}

	f.register(cmd)
	return cmd
}

func newPreviewCommand(opts *options) *cobra.Command {
	var (
		f     refFlags
		limit int
		show  bool
	)

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Show the first rows of a table or view",
		Example: `  dbscope preview --table orders --limit 20
  dbscope preview --view active_users --sql`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("limit") {
				limit = opts.cfg.Preferences.RowLimit()
			}
			return opts.withSession(cmd.Context(), func(s *app.Session) error {
				if show {
					q, err := s.PreviewQuery(limit, f.ref())
					if err != nil {
						return err
					}
					_, err = cmd.OutOrStdout().Write([]byte(q + "\n"))
					return err
				}
				res, err := s.Preview(cmd.Context(), limit, f.ref())
				if err != nil {
					return err
				}
				return renderResult(cmd.OutOrStdout(), res, opts.output)
			})
		},
	}

	f.register(cmd)
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum rows (default: preferences.preview_row_limit)")
	cmd.Flags().BoolVar(&show, "sql", false, "print the preview query instead of running it")
	return cmd
}

func newIdentityCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "identity",
		Short: "Show how hosts identify the connection",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withSession(cmd.Context(), func(s *app.Session) error {
				return renderIdentity(cmd.OutOrStdout(), identity{
					Type:        s.Capabilities().ProductName,
					HostKey:     s.HostKey(),
					DisplayName: s.DisplayName(),
					ConnectCode: s.ConnectCode(),
				}, opts.output)
			})
		},
	}
}

func newConnectionsCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "connections",
		Aliases: []string{"conns"},
		Short:   "List saved connections",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return renderConnections(cmd.OutOrStdout(), opts.cfg, opts.output)
		},
	}
}
