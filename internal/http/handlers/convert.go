package handlers

import "service-fulfillment/internal/domain"

func runToResponse(run domain.Run) runResponse {
	return runResponse{
		OrderID:           run.OrderID,
		State:             string(run.State),
		FailReason:        run.FailReason,
		CorrelationID:     run.CorrelationID,
		TrackingNumbers:   run.TrackingNumbers,
		CallbackDelivered: run.CallbackDelivered,
		Events:            run.Events,
		StartedAt:         run.StartedAt,
		UpdatedAt:         run.UpdatedAt,
	}
}

func printJobToResponse(j domain.PrintJob) printJobDTO {
	return printJobDTO{
		ID:           j.ID,
		OrderID:      j.OrderID,
		Piece:        j.Piece,
		PrinterAddr:  j.PrinterAddr,
		State:        string(j.State),
		Attempts:     j.Attempts,
		LastError:    j.LastError,
		FirstAttempt: j.FirstAttemptAt,
		LastAttempt:  j.LastAttemptAt,
		CreatedAt:    j.CreatedAt,
	}
}

func printJobsToResponse(list []domain.PrintJob) []printJobDTO {
	out := make([]printJobDTO, 0, len(list))
	for _, j := range list {
		out = append(out, printJobToResponse(j))
	}
	return out
}
