package main

import (
	"github.com/spf13/cobra"

	"github.com/carebook/carebook/internal/stubserver"
)

func newStubCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stub",
		Short: "Development backend",
	}

	var port string
	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the in-memory development backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			if port == "" {
				port = a.cfg.StubPort
			}
			srv := stubserver.NewServer(stubserver.NewStore(), a.cfg.StubSecret, a.logger)
			return srv.Start(":" + port)
		},
	}
	serve.Flags().StringVar(&port, "port", "", "listen port")

	cmd.AddCommand(serve)
	return cmd
}
