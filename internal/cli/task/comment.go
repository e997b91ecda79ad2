package task

import (
	"fmt"
	"io"
	"log"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tablero/internal/app"
	"github.com/thenoetrevino/tablero/internal/cli"
	"github.com/thenoetrevino/tablero/internal/types"
)

// CommentCmd returns the comment parent command
func CommentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comment",
		Short: "Manage task comments",
	}
	cli.AddOutputFlags(cmd)

	cmd.AddCommand(commentListCmd())
	cmd.AddCommand(commentAddCmd())
	cmd.AddCommand(commentDeleteCmd())

	return cmd
}

func commentListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <task-id>",
		Short: "List a task's comments",
		Args:  cobra.ExactArgs(1),
		RunE: cli.Run(func(cmd *cobra.Command, args []string, a *app.App, out *cli.OutputFormatter) error {
			comments, err := a.TaskService.ListComments(cmd.Context(), types.TaskID(args[0]))
			if err != nil {
				return err
			}
			return out.Success(comments, func(w io.Writer) {
				if len(comments) == 0 {
					fmt.Fprintln(w, "No comments")
					return
				}
				for _, c := range comments {
					fmt.Fprintf(w, "[%s] %s (%s): %s\n", c.ID, c.Author, c.CreatedAt.Format("2006-01-02 15:04"), c.Body)
				}
			})
		}),
	}
}

func commentAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <task-id>",
		Short: "Comment on a task",
		Args:  cobra.ExactArgs(1),
		RunE: cli.Run(func(cmd *cobra.Command, args []string, a *app.App, out *cli.OutputFormatter) error {
			message, _ := cmd.Flags().GetString("message")
			c, err := a.TaskService.AddComment(cmd.Context(), types.TaskID(args[0]), message)
			if err != nil {
				return err
			}
			return out.Success(c, func(w io.Writer) {
				fmt.Fprintf(w, "✓ Comment added (ID: %s)\n", c.ID)
			})
		}),
	}

	cmd.Flags().StringP("message", "m", "", "Comment text (required)")
	if err := cmd.MarkFlagRequired("message"); err != nil {
		log.Printf("Error marking flag as required: %v", err)
	}
	return cmd
}

func commentDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <comment-id>",
		Short: "Delete a comment",
		Args:  cobra.ExactArgs(1),
		RunE: cli.Run(func(cmd *cobra.Command, args []string, a *app.App, out *cli.OutputFormatter) error {
			id := types.CommentID(args[0])
			if err := a.TaskService.DeleteComment(cmd.Context(), id); err != nil {
				return err
			}
			out.Message("✓ Comment %s deleted", id)
			return nil
		}),
	}
}
