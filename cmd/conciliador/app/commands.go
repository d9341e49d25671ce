package app

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/aulatools/conciliador"
	"github.com/aulatools/conciliador/internal/csvlog"
	"github.com/aulatools/conciliador/internal/report"
	"github.com/aulatools/conciliador/internal/xlsx"
	"github.com/aulatools/conciliador/pkg/logging"
	"github.com/aulatools/conciliador/pkg/reconcile"
	"github.com/aulatools/conciliador/pkg/sessionlog"
)

// NewConciliarCommand creates the main reconciliation command.
func (a *App) NewConciliarCommand() *cobra.Command {
	var (
		output     string
		reportPath string
		window     float64
	)

	cmd := &cobra.Command{
		Use:   "conciliar <roster.xlsx> <registro.csv> [registro2.csv ...]",
		Short: "Concilia el roster con uno o más registros de sesiones",
		Long: `Carga el roster desde un XLSX y los registros de videoconferencia desde
uno o más CSV (acumulados y deduplicados entre semanas), ejecuta la
conciliación y la normalización de la grilla de sesiones, y escribe el
roster actualizado.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := logging.WithLogger(cmd.Context(), a.logger)
			rosterPath, logPaths := args[0], args[1:]

			table, err := xlsx.Load(rosterPath)
			if err != nil {
				return err
			}
			a.logger.Info().
				Str("file", rosterPath).
				Int("rows", len(table.Rows)).
				Msg("Roster loaded")

			logs := sessionlog.NewSet()
			for _, path := range logPaths {
				entries, err := csvlog.Load(path)
				if err != nil {
					return err
				}
				added := logs.Add(entries...)
				a.logger.Info().
					Str("file", path).
					Int("entries", len(entries)).
					Int("new", added).
					Msg("Session log loaded")
			}

			if window == 0 {
				window = a.config.ProximityWindow
			}
			result, err := conciliador.Process(ctx, table, logs,
				reconcile.WithProximityWindow(window),
				reconcile.WithNotifier(func(msg string) {
					a.logger.Warn().Msg(msg)
				}),
			)
			if err != nil {
				return err
			}

			if output == "" {
				output = rosterPath
			}
			if err := xlsx.Write(output, result.Table); err != nil {
				return err
			}

			if reportPath != "" {
				if err := report.FromResult(result, rosterPath, logPaths).Write(reportPath); err != nil {
					return err
				}
			}

			printSummary(result, output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "salida", "s", "", "archivo XLSX de salida (por defecto sobrescribe el roster)")
	cmd.Flags().StringVar(&reportPath, "reporte", "", "guardar un resumen YAML de la corrida")
	cmd.Flags().Float64Var(&window, "ventana", 0, "ventana de proximidad en minutos para el emparejamiento por hora")
	return cmd
}

// NewInspeccionarCommand creates the session-log inspection command.
func (a *App) NewInspeccionarCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspeccionar <registro.csv>",
		Short: "Muestra cómo se interpreta un registro de sesiones",
		Long: `Carga un CSV de sesiones y muestra por entrada el anfitrión, las horas y
el resultado del análisis del tema (curso, sección, sesión). Útil para
diagnosticar temas que no siguen la convención.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := csvlog.Load(args[0])
			if err != nil {
				return err
			}

			t := tablewriter.NewTable(os.Stdout)
			t.Header("Anfitrión", "Tema", "Inicio", "Curso", "Sección", "Sesión")
			for _, e := range entries {
				curso, seccion, sesion := "-", "-", "-"
				if topic, ok := sessionlog.ParseTopic(e.Topic); ok {
					curso = topic.Curso
					seccion = topic.Seccion
					if topic.HasSesion {
						sesion = fmt.Sprintf("%d", topic.Sesion)
					}
				}
				if err := t.Append(e.Host, e.Topic, e.Start, curso, seccion, sesion); err != nil {
					return err
				}
			}
			if err := t.Render(); err != nil {
				return err
			}
			fmt.Printf("%d entradas\n", len(entries))
			return nil
		},
	}
	return cmd
}

// NewVersionCommand creates the version command.
func (a *App) NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Muestra la versión",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Printf("conciliador %s (commit %s, built %s)\n", a.version, a.commit, a.date)
		},
	}
}

// printSummary renders the run outcome for the user.
func printSummary(result *reconcile.Result, output string) {
	fmt.Println(result.Summary())
	fmt.Printf("Roster escrito en %s (%d filas)\n", output, len(result.Table.Rows))
	for _, w := range result.Warnings {
		fmt.Printf("  aviso: %s\n", w)
	}
}
