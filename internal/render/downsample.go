package render

import (
	"fmt"
	"math"
)

// Downsample reduz uma sequência para no máximo maxPoints elementos por
// amostragem uniforme de índices, mantendo sempre o primeiro e o último
// elemento e preservando a ordem original. Sequências já dentro do limite
// são retornadas sem alteração.
func Downsample[T any](seq []T, maxPoints int) ([]T, error) {
	if seq == nil {
		return nil, fmt.Errorf("sequência nula")
	}
	if maxPoints <= 0 {
		return nil, fmt.Errorf("maxPoints deve ser positivo: %d", maxPoints)
	}
	if len(seq) <= maxPoints {
		return seq, nil
	}
	if maxPoints == 1 {
		return seq[:1:1], nil
	}

	out := make([]T, maxPoints)
	step := float64(len(seq)-1) / float64(maxPoints-1)
	for i := range out {
		out[i] = seq[int(math.Round(float64(i)*step))]
	}
	// Garantir o último elemento original, independente de arredondamento
	out[maxPoints-1] = seq[len(seq)-1]

	return out, nil
}

// DownsampleMatrixAverage reduz uma matriz para as dimensões alvo calculando
// a média aritmética de cada bloco retangular de origem. O tamanho do bloco é
// a razão origem/alvo truncada; o resto da divisão é absorvido pelo último
// bloco de cada dimensão, de modo que nenhuma célula de origem é descartada.
// Matrizes já dentro dos limites são retornadas sem alteração. A matriz deve
// ser retangular.
func DownsampleMatrixAverage(matrix [][]float64, targetRows, targetCols int) ([][]float64, error) {
	rows, cols, err := checkMatrixArgs(matrix, targetRows, targetCols)
	if err != nil {
		return nil, err
	}
	if rows <= targetRows && cols <= targetCols {
		return matrix, nil
	}
	if targetRows > rows {
		targetRows = rows
	}
	if targetCols > cols {
		targetCols = cols
	}

	blockRows := rows / targetRows
	blockCols := cols / targetCols

	out := make([][]float64, targetRows)
	for i := 0; i < targetRows; i++ {
		out[i] = make([]float64, targetCols)
		startRow := i * blockRows
		endRow := startRow + blockRows
		if i == targetRows-1 {
			endRow = rows
		}

		for j := 0; j < targetCols; j++ {
			startCol := j * blockCols
			endCol := startCol + blockCols
			if j == targetCols-1 {
				endCol = cols
			}

			sum := 0.0
			for r := startRow; r < endRow; r++ {
				for c := startCol; c < endCol; c++ {
					sum += matrix[r][c]
				}
			}
			out[i][j] = sum / float64((endRow-startRow)*(endCol-startCol))
		}
	}

	return out, nil
}

// DownsampleMatrix reduz uma matriz para as dimensões alvo amostrando a
// célula de origem mais próxima de cada célula alvo. Mais rápido que a
// variante por média, ao custo de um resultado menos suave.
func DownsampleMatrix(matrix [][]float64, targetRows, targetCols int) ([][]float64, error) {
	rows, cols, err := checkMatrixArgs(matrix, targetRows, targetCols)
	if err != nil {
		return nil, err
	}
	if rows <= targetRows && cols <= targetCols {
		return matrix, nil
	}
	if targetRows > rows {
		targetRows = rows
	}
	if targetCols > cols {
		targetCols = cols
	}

	out := make([][]float64, targetRows)
	for i := 0; i < targetRows; i++ {
		out[i] = make([]float64, targetCols)
		srcRow := i * rows / targetRows
		for j := 0; j < targetCols; j++ {
			out[i][j] = matrix[srcRow][j*cols/targetCols]
		}
	}

	return out, nil
}

// checkMatrixArgs valida os argumentos comuns das reduções de matriz
func checkMatrixArgs(matrix [][]float64, targetRows, targetCols int) (rows, cols int, err error) {
	if matrix == nil {
		return 0, 0, fmt.Errorf("matriz nula")
	}
	if targetRows <= 0 || targetCols <= 0 {
		return 0, 0, fmt.Errorf("dimensões alvo devem ser positivas: %dx%d", targetRows, targetCols)
	}
	rows = len(matrix)
	if rows > 0 {
		cols = len(matrix[0])
	}
	return rows, cols, nil
}
