// Package emb wraps ONNX Runtime and a HuggingFace tokenizer into a small
// sentence encoder. The encoder loads a transformer model once and produces
// mean-pooled embeddings for short texts.
package emb

import (
	"errors"
	"fmt"

	"github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
	ort "github.com/yalue/onnxruntime_go"
)

// Config holds the paths required to initialize the encoder.
type Config struct {
	// OrtDLL is the path to the onnxruntime shared library.
	OrtDLL string
	// ModelPath is the path to the ONNX model file.
	ModelPath string
	// TokenizerPath is the path to the HuggingFace tokenizer.json.
	TokenizerPath string
	// MaxSeqLen caps the token sequence length. Zero means 512.
	MaxSeqLen int
}

// Encoder runs a transformer encoder model through ONNX Runtime.
type Encoder struct {
	tk        *tokenizer.Tokenizer
	session   *ort.DynamicAdvancedSession
	maxSeqLen int
}

// Init loads the shared library, tokenizer and model session.
func (e *Encoder) Init(cfg Config) error {
	if cfg.ModelPath == "" {
		return errors.New("model path is required")
	}
	if cfg.TokenizerPath == "" {
		return errors.New("tokenizer path is required")
	}
	if cfg.MaxSeqLen <= 0 {
		cfg.MaxSeqLen = 512
	}

	tk, err := pretrained.FromFile(cfg.TokenizerPath)
	if err != nil {
		return fmt.Errorf("load tokenizer: %w", err)
	}

	if !ort.IsInitialized() {
		if cfg.OrtDLL != "" {
			ort.SetSharedLibraryPath(cfg.OrtDLL)
		}
		if err := ort.InitializeEnvironment(); err != nil {
			return fmt.Errorf("initialize onnxruntime: %w", err)
		}
	}

	session, err := ort.NewDynamicAdvancedSession(
		cfg.ModelPath,
		[]string{"input_ids", "attention_mask"},
		[]string{"last_hidden_state"},
		nil,
	)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	e.tk = tk
	e.session = session
	e.maxSeqLen = cfg.MaxSeqLen
	return nil
}

// Close releases the ONNX session. The shared environment is left alive so
// other encoders in the same process keep working.
func (e *Encoder) Close() {
	if e.session != nil {
		e.session.Destroy()
		e.session = nil
	}
	e.tk = nil
}

// Encode tokenizes the text, runs the model and returns the mean-pooled
// embedding of the last hidden state.
func (e *Encoder) Encode(text string) ([]float32, error) {
	if e.session == nil || e.tk == nil {
		return nil, errors.New("encoder is not initialized")
	}
	encoding, err := e.tk.EncodeSingle(text, true)
	if err != nil {
		return nil, fmt.Errorf("tokenize: %w", err)
	}
	ids := encoding.Ids
	mask := encoding.AttentionMask
	if len(ids) == 0 {
		return nil, errors.New("tokenizer produced no tokens")
	}
	if len(ids) > e.maxSeqLen {
		ids = ids[:e.maxSeqLen]
		mask = mask[:e.maxSeqLen]
	}

	seqLen := int64(len(ids))
	inputIDs := make([]int64, seqLen)
	attentionMask := make([]int64, seqLen)
	for i := range ids {
		inputIDs[i] = int64(ids[i])
		attentionMask[i] = int64(mask[i])
	}

	shape := ort.NewShape(1, seqLen)
	idsTensor, err := ort.NewTensor(shape, inputIDs)
	if err != nil {
		return nil, fmt.Errorf("create input_ids tensor: %w", err)
	}
	defer idsTensor.Destroy()
	maskTensor, err := ort.NewTensor(shape, attentionMask)
	if err != nil {
		return nil, fmt.Errorf("create attention_mask tensor: %w", err)
	}
	defer maskTensor.Destroy()

	outputs := []ort.Value{nil}
	if err := e.session.Run([]ort.Value{idsTensor, maskTensor}, outputs); err != nil {
		return nil, fmt.Errorf("run model: %w", err)
	}
	defer outputs[0].Destroy()

	hidden, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		return nil, errors.New("model output is not a float32 tensor")
	}
	outShape := hidden.GetShape()
	if len(outShape) != 3 {
		return nil, fmt.Errorf("unexpected output rank %d", len(outShape))
	}
	return meanPool(hidden.GetData(), int(outShape[1]), int(outShape[2]), attentionMask), nil
}

// meanPool averages token embeddings weighted by the attention mask.
func meanPool(data []float32, seqLen, hiddenSize int, mask []int64) []float32 {
	out := make([]float32, hiddenSize)
	var count float32
	for t := 0; t < seqLen; t++ {
		if t < len(mask) && mask[t] == 0 {
			continue
		}
		row := data[t*hiddenSize : (t+1)*hiddenSize]
		for i, v := range row {
			out[i] += v
		}
		count++
	}
	if count == 0 {
		return out
	}
	for i := range out {
		out[i] /= count
	}
	return out
}
