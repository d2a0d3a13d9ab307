package server

import (
	"encoding/json"
	"errors"
	"fed_core/dal"
	"fed_core/dto"
	"fed_core/logic"
	"fed_core/shared"
	"fmt"
	"github.com/gorilla/mux"
	"net/http"
)

// Groups together the handlers of the federation surface: inboxes, actor documents and published activities.
type apubHandlerGroup struct {
	cfg      *shared.Config
	logger   shared.ILogger
	metrics  logic.IMetrics
	sigAuth  logic.ISigAuthenticator
	adir     logic.IActorDirectory
	actStore logic.IActivityStore
}

func NewApubHandlerGroup(
	cfg *shared.Config,
	logger shared.ILogger,
	metrics logic.IMetrics,
	sigAuth logic.ISigAuthenticator,
	adir logic.IActorDirectory,
	actStore logic.IActivityStore,
) IHandlerGroup {
	res := apubHandlerGroup{
		cfg:      cfg,
		logger:   logger,
		metrics:  metrics,
		sigAuth:  sigAuth,
		adir:     adir,
		actStore: actStore,
	}
	return &res
}

func (hg *apubHandlerGroup) Prefix() string {
	return "/federation"
}

func (hg *apubHandlerGroup) GroupDefs() []handlerDef {
	return []handlerDef{
		{"GET", "/actors/{name}", func(w http.ResponseWriter, r *http.Request) { hg.getActor(w, r) }},
		{"GET", "/activities/{uuid}", func(w http.ResponseWriter, r *http.Request) { hg.getActivity(w, r) }},
		{"POST", "/actors/{name}/inbox", func(w http.ResponseWriter, r *http.Request) { hg.postInbox(w, r) }},
		{"POST", "/shared/inbox", func(w http.ResponseWriter, r *http.Request) { hg.postInbox(w, r) }},
	}
}

func (hg *apubHandlerGroup) AuthMW() func(next http.Handler) http.Handler {
	return emptyMW
}

func (hg *apubHandlerGroup) getActor(w http.ResponseWriter, r *http.Request) {

	hg.logger.Infof("Handling actor GET: %s", r.URL.Path)
	obs := hg.metrics.StartApubRequestIn("actor")
	defer obs.Finish()

	name := mux.Vars(r)["name"]
	doc, err := hg.adir.GetActorDoc(name)
	if err != nil {
		hg.logger.Errorf("Failed to get actor document for '%s': %v", name, err)
		writeErrorResponse(w, internalErrorStr, http.StatusInternalServerError)
		return
	}
	if doc == nil {
		hg.logger.Infof("Actor requested for unknown name: '%s'", name)
		writeErrorResponse(w, "No such actor", http.StatusNotFound)
		return
	}
	writeJsonResponse(hg.logger, w, http.StatusOK, doc)
}

// getActivity serves an activity published by this instance. A signature is optional;
// without one, only public activities are served.
func (hg *apubHandlerGroup) getActivity(w http.ResponseWriter, r *http.Request) {

	hg.logger.Infof("Handling activity GET: %s", r.URL.Path)
	obs := hg.metrics.StartApubRequestIn("activity")
	defer obs.Finish()

	viewer, err := hg.sigAuth.Authenticate(r, nil)
	if err != nil {
		var authErr *logic.AuthenticationFailed
		if errors.As(err, &authErr) {
			hg.logger.Warnf("Incorrectly signed activity GET request: %s", authErr.Reason)
			writeErrorResponse(w, fmt.Sprintf("Invalid HTTP signature: %s", authErr.Reason), http.StatusUnauthorized)
			return
		}
		hg.logger.Errorf("Unexpected error trying to verify signature: %v", err)
		writeErrorResponse(w, internalErrorStr, http.StatusInternalServerError)
		return
	}

	actUuid := mux.Vars(r)["uuid"]
	act, err := hg.actStore.GetLocalActivity(actUuid, viewer)
	if err != nil {
		hg.logger.Errorf("Failed to get activity '%s': %v", actUuid, err)
		writeErrorResponse(w, internalErrorStr, http.StatusInternalServerError)
		return
	}
	// Activities the viewer may not see are reported as missing
	if act == nil {
		writeErrorResponse(w, "No such activity", http.StatusNotFound)
		return
	}
	writeJsonResponse(hg.logger, w, http.StatusOK, json.RawMessage(act.Payload))
}

func (hg *apubHandlerGroup) postInbox(w http.ResponseWriter, r *http.Request) {

	hg.logger.Infof("Handling inbox POST: %s", r.URL.Path)
	name := mux.Vars(r)["name"]
	if name == "" {
		obs := hg.metrics.StartApubRequestIn("shared/inbox")
		defer obs.Finish()
	} else {
		obs := hg.metrics.StartApubRequestIn("actor/inbox")
		defer obs.Finish()
		recipient, err := hg.adir.GetLocalActor(name)
		if err != nil {
			hg.logger.Errorf("Failed to look up inbox owner '%s': %v", name, err)
			writeErrorResponse(w, internalErrorStr, http.StatusInternalServerError)
			return
		}
		if recipient == nil {
			hg.logger.Infof("Inbox POST for unknown actor: '%s'", name)
			writeErrorResponse(w, "No such actor", http.StatusNotFound)
			return
		}
	}

	bodyBytes := readBody(hg.logger, w, r)
	if bodyBytes == nil {
		return
	}
	hg.logger.Debug(string(bodyBytes))

	var act dto.ActivityInBase
	if err := json.Unmarshal(bodyBytes, &act); err != nil {
		hg.logger.Infof("Invalid JSON in request body: %v", err)
		writeErrorResponse(w, "Request body is not valid JSON", http.StatusBadRequest)
		return
	}

	signer, err := hg.sigAuth.Authenticate(r, bodyBytes)
	if err != nil {
		var authErr *logic.AuthenticationFailed
		if errors.As(err, &authErr) {
			hg.logger.Warnf("Incorrectly signed inbox POST request: %s", authErr.Reason)
			writeErrorResponse(w, fmt.Sprintf("Invalid HTTP signature: %s", authErr.Reason), http.StatusUnauthorized)
			return
		}
		hg.logger.Errorf("Unexpected error trying to verify signature: %v", err)
		writeErrorResponse(w, internalErrorStr, http.StatusInternalServerError)
		return
	}
	if signer == nil {
		hg.logger.Info("Unsigned inbox POST request")
		writeErrorResponse(w, "Request must be signed", http.StatusUnauthorized)
		return
	}
	if signer.Fid != act.Actor {
		hg.logger.Warnf("Activity signed by %s, but actor is %s", signer.Fid, act.Actor)
		writeErrorResponse(w, "Signer does not match actor", http.StatusUnauthorized)
		return
	}

	hg.receive(w, bodyBytes, signer)
}

func (hg *apubHandlerGroup) receive(w http.ResponseWriter, bodyBytes []byte, signer *dal.Actor) {

	_, err := hg.actStore.Receive(bodyBytes, signer)
	if err != nil {
		var valErr *logic.ValidationError
		if errors.As(err, &valErr) {
			hg.logger.Infof("Invalid activity from %s: %v", signer.Fid, valErr)
			writeErrorResponse(w, valErr.Error(), http.StatusBadRequest)
			return
		}
		hg.logger.Errorf("Error storing inbox activity: %v", err)
		writeErrorResponse(w, internalErrorStr, http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}
